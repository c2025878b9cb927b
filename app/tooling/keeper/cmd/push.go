package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var pushRateID string

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Force-finalize the live value for a rate id.",
	Run:   pushRun,
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringVarP(&pushRateID, "rate", "r", "", "Rate id to push.")
	pushCmd.MarkFlagRequired("rate")
}

func pushRun(cmd *cobra.Command, args []string) {
	req := struct {
		RateID string `json:"rate_id"`
	}{
		RateID: pushRateID,
	}

	if err := post("/v1/push", req, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println("pushed")
}
