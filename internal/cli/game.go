package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game metadata commands",
	}

	cmd.AddCommand(newGameRegisterCmd())
	cmd.AddCommand(newGameGetCmd())

	return cmd
}

func newGameRegisterCmd() *cobra.Command {
	var (
		subject       string
		difficulty    string
		questionCount int
	)

	cmd := &cobra.Command{
		Use:   "register <id> <title>",
		Short: "Register game metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"id":             args[0],
				"title":          args[1],
				"subject":        subject,
				"difficulty":     difficulty,
				"question_count": questionCount,
			}

			var result GameInfo

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Game subject")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Game difficulty")
	cmd.Flags().IntVar(&questionCount, "questions", 0, "Number of questions")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get game metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameInfo

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
