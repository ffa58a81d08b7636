package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dataanalyst/internal/domain"
	"dataanalyst/internal/spreadsheet"
)

var (
	askQuestions string
	askCSV       string
	askXLSX      string
	askImage     string
	askCompact   bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question bundle from local files and print the JSON answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := loadBundle()
		if err != nil {
			return err
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer syncLogger(a.Log)

		result, err := a.Analysis.Analyze(cmd.Context(), *bundle)
		if err != nil {
			return err
		}

		out := result.Body
		if !askCompact {
			var buf bytes.Buffer
			if err := json.Indent(&buf, result.Body, "", "  "); err == nil {
				out = buf.Bytes()
			}
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	askCmd.Flags().StringVarP(&askQuestions, "questions", "q", "", "path to questions.txt (required)")
	askCmd.Flags().StringVar(&askCSV, "csv", "", "path to a CSV file")
	askCmd.Flags().StringVar(&askXLSX, "xlsx", "", "path to an Excel workbook (first sheet is used when --csv is not set)")
	askCmd.Flags().StringVar(&askImage, "image", "", "path to an image file")
	askCmd.Flags().BoolVar(&askCompact, "compact", false, "print the answer without indentation")
	_ = askCmd.MarkFlagRequired("questions")
}

// loadBundle reads the files named by the ask flags the same way the HTTP
// handler reads multipart parts.
func loadBundle() (*domain.Bundle, error) {
	questions, err := os.ReadFile(askQuestions)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	bundle := &domain.Bundle{Questions: string(questions)}

	switch {
	case askCSV != "":
		data, err := os.ReadFile(askCSV)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		bundle.CSV = string(data)
		bundle.HasCSV = true
	case askXLSX != "":
		data, err := os.ReadFile(askXLSX)
		if err != nil {
			return nil, fmt.Errorf("read xlsx: %w", err)
		}
		text, err := spreadsheet.XLSXToCSV(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSpreadsheet, askXLSX, err)
		}
		bundle.CSV = text
		bundle.HasCSV = true
	}

	if askImage != "" {
		data, err := os.ReadFile(askImage)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		bundle.Image = data
		bundle.ImageName = filepath.Base(askImage)
		bundle.HasImage = true
	}
	return bundle, nil
}
