package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	account string
	rateIDs []string
)

var bondCmd = &cobra.Command{
	Use:   "bond",
	Short: "Lock collateral against a set of rate ids.",
	Run:   bondRun,
}

func init() {
	rootCmd.AddCommand(bondCmd)
	bondCmd.Flags().StringVarP(&account, "account", "a", "", "Account locking the collateral.")
	bondCmd.Flags().StringSliceVarP(&rateIDs, "rate", "r", nil, "Rate id to bond against. Repeatable.")
	bondCmd.MarkFlagRequired("account")
	bondCmd.MarkFlagRequired("rate")
}

func bondRun(cmd *cobra.Command, args []string) {
	req := struct {
		Caller  string   `json:"caller"`
		RateIDs []string `json:"rate_ids"`
	}{
		Caller:  account,
		RateIDs: rateIDs,
	}

	if err := post("/v1/bond", req, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println("bonded")
}
