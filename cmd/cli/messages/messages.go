package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/pcbuilderguide/pcbg/cmd/cli/apiclient"
	"github.com/pcbuilderguide/pcbg/cmd/cli/config"
	"github.com/pcbuilderguide/pcbg/cmd/cli/output"
	"github.com/spf13/cobra"
)

type contactMessage struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	BuildPurpose []string  `json:"buildPurpose"`
	CreatedAt    time.Time `json:"createdAt"`
}

const previewLen = 40

// InitMessages registers the admin inbox commands on the root command.
func InitMessages(rootCmd *cobra.Command) {
	messagesCmd := &cobra.Command{
		Use:   "messages",
		Short: "Read contact form submissions (Admin only)",
	}
	messagesCmd.AddCommand(listCmd())
	rootCmd.AddCommand(messagesCmd)
}

func listCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every contact message, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}

			var msgs []contactMessage
			if err := apiclient.Do("GET", "/api/contact-messages", token, nil, &msgs); err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No messages.")
				return nil
			}

			rows := make([][]interface{}, 0, len(msgs))
			for _, m := range msgs {
				body := m.Message
				if !full {
					body = preview(body)
				}
				rows = append(rows, []interface{}{
					m.ID,
					m.CreatedAt.Local().Format("2006-01-02 15:04"),
					m.Name,
					m.Email,
					m.Subject,
					strings.Join(m.BuildPurpose, ", "),
					body,
				})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Received", "Name", "Email", "Subject", "Purpose", "Message"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Show whole message bodies")
	return cmd
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen-3]) + "..."
}
