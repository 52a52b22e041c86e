package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"fleet-chatbot/internal/common/config"
	answerquestion "fleet-chatbot/internal/workers/chatbot/answer-question"
)

var (
	askSiteID int
	askUserID string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question and print the response",
	Example: `  chatbot ask "where is workstation 1001" --site-id 4
  chatbot ask "how many chargers do we have" --user-id 8f2c`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askSiteID, "site-id", 0, "site the question is about")
	askCmd.Flags().StringVar(&askUserID, "user-id", "", "user asking the question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), config.GetDuration(cfg.QnA.Timeout+cfg.DataAPI.Timeout))
	defer cancel()

	a, err := newApp(ctx, cfg, zapLog, 1, "fleet-chatbot-cli")
	if err != nil {
		return err
	}
	defer a.close()

	req := answerquestion.Request{Question: strings.Join(args, " ")}
	if cmd.Flags().Changed("site-id") {
		req.SiteID = &askSiteID
	}
	if askUserID != "" {
		req.UserID = &askUserID
	}

	reply := a.service.Ask(ctx, answerquestion.SourceCLI, req)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(reply)
}
