package contact

import (
	"fmt"

	"github.com/pcbuilderguide/pcbg/cmd/cli/apiclient"
	"github.com/spf13/cobra"
)

// InitContact registers `contact send` on the root command.
func InitContact(rootCmd *cobra.Command) {
	contactCmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the PC Builder Guide team",
	}
	contactCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(contactCmd)
}

func sendCmd() *cobra.Command {
	var name, email, subject, message string
	var purposes []string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit the contact form",
		Long: `Submit the contact form. No account is needed.

Subjects: build-review, component-question, compatibility, suggestions, other.
Build purposes (repeat --purpose): gaming, work, content-creation, streaming, general, other.`,
		Example: `  pcbg contact send --name Sam --email sam@example.com --subject build-review \
    --message "Is a 650W PSU enough for my build?" --purpose gaming --purpose streaming`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Message string `json:"message"`
				ID      int    `json:"id"`
			}
			err := apiclient.Do("POST", "/api/contact", "", map[string]interface{}{
				"name":         name,
				"email":        email,
				"subject":      subject,
				"message":      message,
				"buildPurpose": purposes,
			}, &resp)
			if err != nil {
				return fmt.Errorf("contact form rejected: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (reference #%d)\n", resp.Message, resp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your name")
	cmd.Flags().StringVar(&email, "email", "", "Reply-to email address")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&message, "message", "", "Message body (at least 10 characters)")
	cmd.Flags().StringSliceVar(&purposes, "purpose", nil, "Build purpose; repeatable")
	return cmd
}
