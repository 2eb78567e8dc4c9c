package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

func newExtractCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <image_path>",
		Short: "Print the embedding of the largest face in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			return withService(cmd, opts, func(svc FaceService) error {
				result, err := svc.Extract(cmd.Context(), img)
				if err != nil {
					return render(opts.Stdout, nil, err)
				}
				return render(opts.Stdout, domain.NewEmbeddingResponse(result), nil)
			})
		},
	}
}

func newLivenessCommand(opts Options) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "liveness <image_path>",
		Short: "Score passive liveness of the face in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			var t *float64
			if cmd.Flags().Changed("threshold") {
				t = &threshold
			}

			return withService(cmd, opts, func(svc FaceService) error {
				v, err := svc.CheckLiveness(cmd.Context(), img, t)
				if err != nil {
					return render(opts.Stdout, nil, err)
				}
				return render(opts.Stdout, domain.NewLivenessResponse(v), nil)
			})
		},
	}
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Score required for verified (default: LIVENESS_THRESHOLD)")

	return cmd
}

func newCompareCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <embedding_a.json> <embedding_b.json>",
		Short: "Cosine similarity of two stored embeddings",
		Long: "Each file holds either a JSON array of numbers or the output of " +
			"the extract command.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e1, err := readEmbedding(args[0])
			if err != nil {
				return err
			}
			e2, err := readEmbedding(args[1])
			if err != nil {
				return err
			}

			return withService(cmd, opts, func(svc FaceService) error {
				result, err := svc.Compare(e1, e2)
				if err != nil {
					return render(opts.Stdout, nil, err)
				}
				return render(opts.Stdout, result, nil)
			})
		},
	}
}

// readEmbedding accepts a bare array or an object with an embedding field
func readEmbedding(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embedding: %w", err)
	}

	var vec []float64
	if err := json.Unmarshal(data, &vec); err == nil {
		return vec, nil
	}

	var doc struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse embedding %s: %w", path, err)
	}
	if doc.Embedding == nil {
		return nil, fmt.Errorf("parse embedding %s: no embedding field", path)
	}
	return doc.Embedding, nil
}
