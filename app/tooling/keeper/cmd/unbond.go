package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	unbondAccount  string
	unbondRateID   string
	unbondReceiver string
	lastProposer   string
	lastValue      string
	lastNonce      string
)

var unbondCmd = &cobra.Command{
	Use:   "unbond",
	Short: "Release a bond once the live proposal's window elapsed.",
	Run:   unbondRun,
}

func init() {
	rootCmd.AddCommand(unbondCmd)
	unbondCmd.Flags().StringVarP(&unbondAccount, "account", "a", "", "Bonded account.")
	unbondCmd.Flags().StringVarP(&unbondRateID, "rate", "r", "", "Rate id the bond covers.")
	unbondCmd.Flags().StringVarP(&unbondReceiver, "receiver", "t", "", "Account receiving the collateral.")
	unbondCmd.Flags().StringVar(&lastProposer, "last-proposer", "", "Proposer of the live proposal.")
	unbondCmd.Flags().StringVar(&lastValue, "last-value", "", "Value of the live proposal.")
	unbondCmd.Flags().StringVar(&lastNonce, "last-nonce", "", "Packed nonce of the live proposal.")
	unbondCmd.MarkFlagRequired("account")
	unbondCmd.MarkFlagRequired("rate")
	unbondCmd.MarkFlagRequired("receiver")
}

func unbondRun(cmd *cobra.Command, args []string) {
	req := struct {
		Caller       string `json:"caller"`
		RateID       string `json:"rate_id"`
		LastProposer string `json:"last_proposer"`
		LastValue    string `json:"last_value"`
		LastNonce    string `json:"last_nonce"`
		Receiver     string `json:"receiver"`
	}{
		Caller:       unbondAccount,
		RateID:       unbondRateID,
		LastProposer: lastProposer,
		LastValue:    lastValue,
		LastNonce:    lastNonce,
		Receiver:     unbondReceiver,
	}

	if err := post("/v1/unbond", req, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println("unbonded")
}
