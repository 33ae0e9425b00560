package embedder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/buckhx/gobert/tokenize"
	"github.com/buckhx/gobert/tokenize/vocab"
	"github.com/gomlx/go-huggingface/hub"
	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	mlcontext "github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/gomlx/onnx-gomlx/onnx"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// The GoMLX backend must only be initialized once per process, so the
// native embedder is a singleton shared by all callers.
var (
	nativeInstance *NativeEmbedder
	nativeOnce     sync.Once
	nativeErr      error
)

const (
	nativeModelName = "all-MiniLM-L6-v2"
	nativeModelRepo = "sentence-transformers/all-MiniLM-L6-v2"
	nativeDims      = 384
	nativeSeqLen    = 256
)

// NativeEmbedder generates embeddings locally with all-MiniLM-L6-v2 via
// GoMLX and ONNX. After the initial HuggingFace download it runs fully
// offline; no API keys, no network round trips per call.
//
// Tokenization uses the BERT WordPiece tokenizer from gobert; the model's
// last_hidden_state is mean-pooled over non-padding tokens to produce a
// 384-dimensional vector.
//
// All methods are safe for concurrent use.
type NativeEmbedder struct {
	model     *onnx.Model
	ctx       *mlcontext.Context
	backend   backends.Backend
	tokenizer tokenize.FeatureFactory
	mu        sync.RWMutex
}

// NewNativeEmbedder creates or returns the process-wide native embedder.
// Model and vocabulary are downloaded from HuggingFace on first use and
// cached in the default HuggingFace cache directory.
//
// A load failure is fatal to every dependent: without embeddings there is
// no semantic cache.
func NewNativeEmbedder() (*NativeEmbedder, error) {
	nativeOnce.Do(func() {
		backend, err := backends.New()
		if err != nil {
			nativeErr = types.WrapError(ErrCodeEmbedderUnavailable,
				"failed to initialize GoMLX backend", err)
			return
		}

		repo := hub.New(nativeModelRepo)

		modelPath, err := repo.DownloadFile("onnx/model.onnx")
		if err != nil {
			nativeErr = types.WrapError(ErrCodeEmbedderUnavailable,
				fmt.Sprintf("failed to download %s model from HuggingFace", nativeModelName), err)
			return
		}

		model, err := onnx.ReadFile(modelPath)
		if err != nil {
			nativeErr = types.WrapError(ErrCodeEmbedderUnavailable,
				fmt.Sprintf("failed to load ONNX model from %s", modelPath), err)
			return
		}

		mlCtx := mlcontext.New()
		if err := model.VariablesToContext(mlCtx); err != nil {
			nativeErr = types.WrapError(ErrCodeEmbedderUnavailable,
				"failed to extract model variables to context", err)
			return
		}

		vocabPath, err := repo.DownloadFile("vocab.txt")
		if err != nil {
			nativeErr = types.WrapError(ErrCodeEmbedderUnavailable,
				"failed to download vocabulary from HuggingFace", err)
			return
		}

		vocabDict, err := vocab.FromFile(vocabPath)
		if err != nil {
			nativeErr = types.WrapError(ErrCodeEmbedderUnavailable,
				fmt.Sprintf("failed to load vocabulary from %s", vocabPath), err)
			return
		}

		bertTokenizer := tokenize.NewTokenizer(vocabDict,
			tokenize.WithLower(true),
			tokenize.WithUnknownToken("[UNK]"))

		nativeInstance = &NativeEmbedder{
			model:   model,
			ctx:     mlCtx,
			backend: backend,
			tokenizer: tokenize.FeatureFactory{
				Tokenizer: bertTokenizer,
				SeqLen:    nativeSeqLen,
			},
		}
	})

	if nativeErr != nil {
		return nil, nativeErr
	}
	return nativeInstance, nil
}

// Embed generates an embedding vector for a single text.
func (e *NativeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, types.WrapError(ErrCodeEmbeddingFailed, "context canceled", err)
	}

	feature := e.tokenizer.Feature(text)
	if len(feature.TokenIDs) == 0 {
		return nil, types.NewError(ErrCodeEmbeddingFailed,
			"tokenization failed: no tokens produced")
	}

	// The tokenizer produces int32; the ONNX model expects int64.
	inputIDs := make([]int64, len(feature.TokenIDs))
	attentionMask := make([]int64, len(feature.Mask))
	tokenTypeIDs := make([]int64, len(feature.TypeIDs))
	for i := range feature.TokenIDs {
		inputIDs[i] = int64(feature.TokenIDs[i])
		attentionMask[i] = int64(feature.Mask[i])
		tokenTypeIDs[i] = int64(feature.TypeIDs[i])
	}

	batchInputIDs := [][]int64{inputIDs}
	batchAttentionMask := [][]int64{attentionMask}
	batchTokenTypeIDs := [][]int64{tokenTypeIDs}

	result, err := mlcontext.ExecOnce(e.backend, e.ctx,
		func(mlCtx *mlcontext.Context, inputs []*Node) *Node {
			g := inputs[0].Graph()

			outputs := e.model.CallGraph(mlCtx, g, map[string]*Node{
				"input_ids":      inputs[0],
				"attention_mask": inputs[1],
				"token_type_ids": inputs[2],
			}, "last_hidden_state")

			lastHiddenState := outputs[0]

			// Mean pooling over non-padding tokens:
			// [batch, seq_len, hidden] -> [batch, hidden]
			maskExpanded := ExpandDims(inputs[1], -1)
			maskExpanded = ConvertType(maskExpanded, lastHiddenState.DType())

			masked := Mul(lastHiddenState, maskExpanded)
			sumHidden := ReduceSum(masked, 1)

			sumMask := ReduceSum(maskExpanded, 1)
			sumMask = Add(sumMask, Const(g, float32(1e-9)))

			return Div(sumHidden, sumMask)
		}, batchInputIDs, batchAttentionMask, batchTokenTypeIDs)

	if err != nil {
		return nil, types.WrapError(ErrCodeEmbeddingFailed,
			"GoMLX graph execution failed", err)
	}

	embedding := tensorToFloat64(result)
	if len(embedding) != nativeDims {
		return nil, types.NewError(ErrCodeEmbeddingFailed,
			fmt.Sprintf("unexpected embedding dimension: got %d, want %d", len(embedding), nativeDims))
	}
	return embedding, nil
}

// EmbedBatch generates embeddings for multiple texts sequentially.
// Partial results are not returned; any failure fails the batch.
func (e *NativeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	results := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, types.WrapError(ErrCodeEmbeddingBatchFailed,
				fmt.Sprintf("context canceled after %d/%d embeddings", i, len(texts)), err)
		}
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, types.WrapError(ErrCodeEmbeddingBatchFailed,
				fmt.Sprintf("failed to generate embedding %d/%d", i+1, len(texts)), err)
		}
		results[i] = embedding
	}
	return results, nil
}

// Dimensions returns 384, the output width of all-MiniLM-L6-v2.
func (e *NativeEmbedder) Dimensions() int {
	return nativeDims
}

// Model returns the embedding model name.
func (e *NativeEmbedder) Model() string {
	return nativeModelName
}

// Health generates a test embedding to verify the model is operational.
func (e *NativeEmbedder) Health(ctx context.Context) types.HealthStatus {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := e.Embed(healthCtx, "health check"); err != nil {
		return types.Degraded(fmt.Sprintf("native embedder failed health check: %v", err))
	}
	return types.Healthy("native embedder operational (all-MiniLM-L6-v2 via GoMLX)")
}

// tensorToFloat64 converts a [1, N] GoMLX tensor to a []float64.
func tensorToFloat64(tensor *tensors.Tensor) []float64 {
	shape := tensor.Shape()
	if shape.Rank() != 2 || shape.Dimensions[0] != 1 {
		panic(fmt.Sprintf("expected shape [1, N], got %v", shape))
	}

	dims := shape.Dimensions[1]
	result := make([]float64, dims)

	switch tensor.DType() {
	case dtypes.Float32:
		data, err := tensors.CopyFlatData[float32](tensor)
		if err != nil {
			panic(fmt.Sprintf("failed to copy tensor data: %v", err))
		}
		for i := 0; i < dims; i++ {
			result[i] = float64(data[i])
		}
	case dtypes.Float64:
		data, err := tensors.CopyFlatData[float64](tensor)
		if err != nil {
			panic(fmt.Sprintf("failed to copy tensor data: %v", err))
		}
		copy(result, data)
	default:
		panic(fmt.Sprintf("unsupported tensor dtype: %v", tensor.DType()))
	}

	return result
}
