package main

import (
	"fmt"
	"strings"

	"github.com/harunnryd/pace/internal/conversation"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the agent a question",
	Long:  `Send the system instruction and a question to the agent, print the transcript and the tokens used.`,
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	loadedCfg, err := loadConfigForCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	modelName, _ := cmd.Flags().GetString("model")
	systemPrompt, _ := cmd.Flags().GetString("system")
	transcriptPath, _ := cmd.Flags().GetString("transcript")

	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = loadedCfg.Agent.SystemPrompt
	}
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		question = loadedCfg.Agent.Question
	}

	a, err := buildAgent(loadedCfg, modelName)
	if err != nil {
		return err
	}

	sig := NewSignalHandler(cmd.Context(), cmd.ErrOrStderr())
	sig.Start()
	defer sig.Stop()

	report, runErr := conversation.NewDriver(a, systemPrompt, cmd.OutOrStdout()).Ask(sig.Context(), question)
	if report != nil && transcriptPath != "" {
		if err := conversation.WriteTranscript(transcriptPath, report); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
	}
	return runErr
}

func init() {
	askCmd.Flags().String("model", "", "model name from models.registry (default is models.default)")
	askCmd.Flags().String("system", "", "system instruction (default is agent.system_prompt)")
	askCmd.Flags().String("transcript", "", "write the conversation report as JSON to this path")
	rootCmd.AddCommand(askCmd)
}
