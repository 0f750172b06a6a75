package aws

import (
	"context"
	"fmt"

	"github.com/Lllllllleong/idpflow/internal/analysis"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractAPI is the subset of the Textract client used here.
type TextractAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// TextractAnalyzer runs synchronous AnalyzeDocument with form and table detection.
type TextractAnalyzer struct {
	client TextractAPI
}

func NewTextractAnalyzer(cfg awssdk.Config) *TextractAnalyzer {
	return &TextractAnalyzer{client: textract.NewFromConfig(cfg)}
}

// NewTextractAnalyzerWithClient wraps an existing client.
func NewTextractAnalyzerWithClient(client TextractAPI) *TextractAnalyzer {
	return &TextractAnalyzer{client: client}
}

func (a *TextractAnalyzer) Analyze(ctx context.Context, content []byte) ([]analysis.Block, error) {
	out, err := a.client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document:     &types.Document{Bytes: content},
		FeatureTypes: []types.FeatureType{types.FeatureTypeForms, types.FeatureTypeTables},
	})
	if err != nil {
		return nil, fmt.Errorf("textract analyze document: %w", err)
	}
	return convertBlocks(out.Blocks), nil
}

func convertBlocks(in []types.Block) []analysis.Block {
	blocks := make([]analysis.Block, 0, len(in))
	for _, b := range in {
		block := analysis.Block{
			ID:   awssdk.ToString(b.Id),
			Type: analysis.BlockType(b.BlockType),
			Text: awssdk.ToString(b.Text),
		}
		for _, et := range b.EntityTypes {
			block.EntityTypes = append(block.EntityTypes, string(et))
		}
		for _, r := range b.Relationships {
			block.Relationships = append(block.Relationships, analysis.Relationship{
				Type: analysis.RelationType(r.Type),
				IDs:  r.Ids,
			})
		}
		blocks = append(blocks, block)
	}
	return blocks
}

var _ analysis.Analyzer = (*TextractAnalyzer)(nil)
