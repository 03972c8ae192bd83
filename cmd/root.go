package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "linguo",
	Short: "Conversational language tutor",
	Long:  "Linguo — a voice-enabled language tutor that assesses your CEFR level through a short chat, then drops you into a roleplay lesson matched to it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGUO_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
