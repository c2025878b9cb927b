package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var spotCmd = &cobra.Command{
	Use:   "spot [asset]",
	Short: "Print the latest finalized value for an asset.",
	Args:  cobra.ExactArgs(1),
	Run:   spotRun,
}

func init() {
	rootCmd.AddCommand(spotCmd)
}

func spotRun(cmd *cobra.Command, args []string) {
	var resp struct {
		Asset string `json:"asset"`
		Value string `json:"value"`
	}
	if err := get(fmt.Sprintf("/v1/spot/%s", args[0]), &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Value)
}
