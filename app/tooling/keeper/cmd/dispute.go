package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	disputeRateID   string
	disputeProposer string
	disputeReceiver string
	disputeValue    string
	disputeNonce    string
	disputeData     string
)

var disputeCmd = &cobra.Command{
	Use:   "dispute",
	Short: "Challenge the committed proposal for a rate id.",
	Long: `Challenge the committed proposal for a rate id. When --data is not
supplied the keeper reads the live data payload from the node and uses it
as the proof.`,
	Run: disputeRun,
}

func init() {
	rootCmd.AddCommand(disputeCmd)
	disputeCmd.Flags().StringVarP(&disputeRateID, "rate", "r", "", "Rate id under dispute.")
	disputeCmd.Flags().StringVarP(&disputeProposer, "proposer", "p", "", "Proposer being challenged.")
	disputeCmd.Flags().StringVarP(&disputeReceiver, "receiver", "t", "", "Account receiving the seized bond.")
	disputeCmd.Flags().StringVarP(&disputeValue, "value", "v", "", "Value the proposer committed.")
	disputeCmd.Flags().StringVarP(&disputeNonce, "nonce", "n", "", "Packed nonce the proposer committed.")
	disputeCmd.Flags().StringVarP(&disputeData, "data", "d", "", "Hex data payload proving the true value.")
	disputeCmd.MarkFlagRequired("rate")
	disputeCmd.MarkFlagRequired("proposer")
	disputeCmd.MarkFlagRequired("receiver")
	disputeCmd.MarkFlagRequired("value")
	disputeCmd.MarkFlagRequired("nonce")
}

func disputeRun(cmd *cobra.Command, args []string) {
	data := disputeData

	if data == "" {
		var live struct {
			Value string `json:"value"`
			Data  string `json:"data"`
		}
		if err := get(fmt.Sprintf("/v1/value/%s", disputeRateID), &live); err != nil {
			log.Fatal(err)
		}
		data = live.Data
	}

	req := struct {
		RateID   string `json:"rate_id"`
		Proposer string `json:"proposer"`
		Receiver string `json:"receiver"`
		Value    string `json:"value"`
		Nonce    string `json:"nonce"`
		Data     string `json:"data"`
	}{
		RateID:   disputeRateID,
		Proposer: disputeProposer,
		Receiver: disputeReceiver,
		Value:    disputeValue,
		Nonce:    disputeNonce,
		Data:     data,
	}

	var resp struct {
		Status    string `json:"status"`
		TrueValue string `json:"true_value"`
	}
	if err := post("/v1/dispute", req, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Status)
	fmt.Println("true value:", resp.TrueValue)
}
