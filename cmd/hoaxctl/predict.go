package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fahrezi93/hoax-detection/internal/app"
	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

// predictOutput mirrors the API prediction body
type predictOutput struct {
	RequestID      string                   `json:"request_id"`
	Label          entity.Label             `json:"label"`
	Confidence     float64                  `json:"confidence"`
	Probabilities  map[entity.Label]float64 `json:"probabilities"`
	Keywords       []string                 `json:"keywords"`
	Rationale      string                   `json:"rationale"`
	ProcessedText  string                   `json:"processed_text"`
	ProcessingTime float64                  `json:"processing_time"`
}

func newPredictCmd(e *env) *cobra.Command {
	var text, file, url string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify one text, file or article URL without storing the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				if text != "" {
					return errors.New("use either --text or --file")
				}
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				text = string(raw)
			}

			pipeline, err := app.Build(cmd.Context(), e.cfg, e.log, nil)
			if err != nil {
				return err
			}
			defer func() { _ = pipeline.Close() }()

			uc := usecase.NewPredictionUsecase(pipeline.PredictionDeps(nil, nil, e.log))
			result, err := uc.Predict(cmd.Context(), &usecase.PredictInput{Text: text, URL: url})
			if err != nil {
				return fmt.Errorf("%s: %w", usecase.KindOf(err), err)
			}

			return writeJSON(cmd.OutOrStdout(), predictOutput{
				RequestID:      result.RequestID.String(),
				Label:          result.Label,
				Confidence:     result.Confidence,
				Probabilities:  result.Probabilities,
				Keywords:       result.Keywords,
				Rationale:      result.Rationale,
				ProcessedText:  result.ProcessedText,
				ProcessingTime: result.ProcessingSeconds(),
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "news text to classify")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the news text from a file")
	cmd.Flags().StringVarP(&url, "url", "u", "", "article URL to fetch and classify")
	return cmd
}
