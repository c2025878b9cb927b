// Package cmd contains the keeper commands.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "keeper",
	Short: "Keeper for the spot oracle",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// post sends the request as JSON to the node and decodes the reply into
// result when one is provided.
func post(path string, request any, result any) error {
	data, err := json.Marshal(request)
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s%s", url, path), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("node returned %s", resp.Status)
		}
		return fmt.Errorf("node returned %s: %s", resp.Status, errResp.Error)
	}

	if result == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// get retrieves the path from the node and decodes the reply into result.
func get(path string, result any) error {
	resp, err := http.Get(fmt.Sprintf("%s%s", url, path))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
