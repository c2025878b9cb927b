package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var proposalCmd = &cobra.Command{
	Use:   "proposal [rateid]",
	Short: "Print the committed digest and live value for a rate id.",
	Args:  cobra.ExactArgs(1),
	Run:   proposalRun,
}

func init() {
	rootCmd.AddCommand(proposalCmd)
}

func proposalRun(cmd *cobra.Command, args []string) {
	var prop struct {
		RateID   string `json:"rate_id"`
		Digest   string `json:"digest"`
		Sentinel bool   `json:"sentinel"`
	}
	if err := get(fmt.Sprintf("/v1/proposal/%s", args[0]), &prop); err != nil {
		log.Fatal(err)
	}

	fmt.Println("digest:  ", prop.Digest)
	fmt.Println("sentinel:", prop.Sentinel)

	var live struct {
		Value string `json:"value"`
		Data  string `json:"data"`
	}
	if err := get(fmt.Sprintf("/v1/value/%s", args[0]), &live); err != nil {
		log.Fatal(err)
	}

	fmt.Println("value:   ", live.Value)
	fmt.Println("data:    ", live.Data)
}
