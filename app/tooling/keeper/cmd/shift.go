package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	shiftAccount string
	shiftRateID  string
	shiftValue   string
	shiftData    string
	prevProposer string
	prevValue    string
	prevNonce    string
)

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Commit a new proposal for a rate id.",
	Long: `Commit a new proposal for a rate id. When --value and --data are not
supplied the keeper reads the live value from the node and proposes it.`,
	Run: shiftRun,
}

func init() {
	rootCmd.AddCommand(shiftCmd)
	shiftCmd.Flags().StringVarP(&shiftAccount, "account", "a", "", "Bonded account committing the proposal.")
	shiftCmd.Flags().StringVarP(&shiftRateID, "rate", "r", "", "Rate id to propose for.")
	shiftCmd.Flags().StringVarP(&shiftValue, "value", "v", "", "Value to propose.")
	shiftCmd.Flags().StringVarP(&shiftData, "data", "d", "", "Hex data payload backing the value.")
	shiftCmd.Flags().StringVar(&prevProposer, "prev-proposer", "", "Proposer of the live proposal.")
	shiftCmd.Flags().StringVar(&prevValue, "prev-value", "", "Value of the live proposal.")
	shiftCmd.Flags().StringVar(&prevNonce, "prev-nonce", "", "Packed nonce of the live proposal.")
	shiftCmd.MarkFlagRequired("account")
	shiftCmd.MarkFlagRequired("rate")
}

func shiftRun(cmd *cobra.Command, args []string) {
	value, data := shiftValue, shiftData

	if value == "" || data == "" {
		var live struct {
			Value string `json:"value"`
			Data  string `json:"data"`
		}
		if err := get(fmt.Sprintf("/v1/value/%s", shiftRateID), &live); err != nil {
			log.Fatal(err)
		}
		value, data = live.Value, live.Data
	}

	req := struct {
		Caller       string `json:"caller"`
		RateID       string `json:"rate_id"`
		PrevProposer string `json:"prev_proposer"`
		PrevValue    string `json:"prev_value"`
		PrevNonce    string `json:"prev_nonce"`
		Value        string `json:"value"`
		Data         string `json:"data"`
	}{
		Caller:       shiftAccount,
		RateID:       shiftRateID,
		PrevProposer: prevProposer,
		PrevValue:    prevValue,
		PrevNonce:    prevNonce,
		Value:        value,
		Data:         data,
	}

	var resp struct {
		Status string `json:"status"`
		Nonce  string `json:"nonce"`
	}
	if err := post("/v1/shift", req, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println("value:", value)
	fmt.Println("nonce:", resp.Nonce)
}
