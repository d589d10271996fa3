package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempokey/tempokey/analysis"
	"github.com/tempokey/tempokey/server"
	"github.com/tempokey/tempokey/transcode"
)

var rootCmd = &cobra.Command{
	Use:   "tempokey",
	Short: "Tempo, key and genre analysis for audio files",
}

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze an audio file and print its tempo, key and genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decoder := transcode.NewDecoder(nil)
		audio, err := decoder.DecodeFile(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}

		result, err := analysis.New().Analyze(audio.PCM, audio.SampleRate)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", args[0], err)
		}

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "File:     %s\n", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Duration: %s\n", audio.Duration.Round(100*time.Millisecond))
		fmt.Fprintf(cmd.OutOrStdout(), "Tempo:    %.2f BPM\n", result.BPM)
		fmt.Fprintf(cmd.OutOrStdout(), "Key:      %s\n", result.Key)
		fmt.Fprintf(cmd.OutOrStdout(), "Genre:    %s\n", result.Genre)
		return nil
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.New().Start(serveAddr)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(analyzeCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
