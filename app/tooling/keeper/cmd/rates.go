package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print the active rate ids.",
	Run:   ratesRun,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}

func ratesRun(cmd *cobra.Command, args []string) {
	var resp struct {
		RateIDs []string `json:"rate_ids"`
	}
	if err := get("/v1/rates/list", &resp); err != nil {
		log.Fatal(err)
	}

	for _, rateID := range resp.RateIDs {
		fmt.Println(rateID)
	}
}
