package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/infrastructure/config"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd 建立 guidectl 指令樹；輸入輸出可替換以便測試
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var vocabFile string

	root := &cobra.Command{
		Use:           "guidectl",
		Short:         "Parse AI recipe answers into step-by-step guides",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&vocabFile, "vocab", "v", "", "YAML/JSON file with a dish_keywords list")

	loadVocab := func() (*guide.Vocabulary, error) {
		if vocabFile == "" {
			return guide.NewVocabulary(config.DefaultDishKeywords), nil
		}
		words, err := guide.LoadVocabularyFile(vocabFile)
		if err != nil {
			return nil, err
		}
		return guide.NewVocabulary(words), nil
	}

	root.AddCommand(newParseCmd(loadVocab), newCheckCmd(loadVocab))
	return root
}

func newParseCmd(loadVocab func() (*guide.Vocabulary, error)) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an answer file (or stdin) and print the guide as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			vocab, err := loadVocab()
			if err != nil {
				return err
			}

			parser := guide.NewParser(guide.WithChecker(guide.NewChecker(vocab)))
			g, err := parser.ParseWithQuery(text, query)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(g)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "original user query for the consistency check")
	return cmd
}

func newCheckCmd(loadVocab func() (*guide.Vocabulary, error)) *cobra.Command {
	var query, title string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare a query with a generated recipe title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab, err := loadVocab()
			if err != nil {
				return err
			}
			if warning := guide.NewChecker(vocab).Check(query, title); warning != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warning)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "user query")
	cmd.Flags().StringVarP(&title, "title", "t", "", "generated recipe title")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("讀取檔案失敗: %w", err)
	}
	return string(b), nil
}
