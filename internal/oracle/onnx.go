package oracle

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
)

// Input/output tensor names a trained Quoridor net is expected to expose.
// Grounded on the teacher's onnx_infer.go, simplified to a single
// general-purpose adapter: no embedded model, no per-OS shared-library
// resolution file, since this module only ever targets the host it's built
// on. The model file path is passed to NewONNX; the onnxruntime shared
// library path comes from its libPath argument or, if that is empty, from
// QUORIDOR_ORT_LIB.
const (
	onnxInputName  = "state"
	onnxPolicyName = "policy"
	onnxValueName  = "value"
)

// ONNX wraps a single onnxruntime session implementing Oracle. Evaluate
// serializes calls with a mutex because the underlying AdvancedSession
// binds fixed input/output tensors that cannot be shared across concurrent
// Run calls.
type ONNX struct {
	mu       sync.Mutex
	session  *ort.AdvancedSession
	inTensor *ort.Tensor[float32]
	outPol   *ort.Tensor[float32]
	outVal   *ort.Tensor[float32]
}

// NewONNX loads the onnxruntime shared library (from libPath, else from
// QUORIDOR_ORT_LIB, else the platform default) and the model at modelPath, and returns a
// ready-to-use Oracle. Callers must call Close when done.
func NewONNX(libPath, modelPath string) (*ONNX, error) {
	if libPath == "" {
		libPath = os.Getenv("QUORIDOR_ORT_LIB")
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("oracle: InitializeEnvironment: %w", err)
	}

	modelBytes, err := os.ReadFile(modelPath)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("oracle: read model %s: %w", modelPath, err)
	}

	inTensor, err := ort.NewTensor(ort.NewShape(1, eval.StatePlaneCount, eval.GridSize, eval.GridSize), make([]float32, eval.StateLen))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("oracle: input tensor: %w", err)
	}
	outPol, err := ort.NewEmptyTensor[float32](ort.NewShape(1, eval.PolicyPlaneCount, eval.GridSize, eval.GridSize))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("oracle: policy output tensor: %w", err)
	}
	outVal, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("oracle: value output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSessionWithONNXData(
		modelBytes,
		[]string{onnxInputName},
		[]string{onnxPolicyName, onnxValueName},
		[]ort.Value{inTensor},
		[]ort.Value{outPol, outVal},
		nil,
	)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("oracle: NewAdvancedSessionWithONNXData: %w", err)
	}

	return &ONNX{session: session, inTensor: inTensor, outPol: outPol, outVal: outVal}, nil
}

// Close releases the session and shared onnxruntime environment.
func (o *ONNX) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session != nil {
		o.session.Destroy()
		o.session = nil
	}
	ort.DestroyEnvironment()
}

func (o *ONNX) Evaluate(g *game.Game) (policy [eval.PolicyLen]float32, value float32, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	state := eval.EncodeStateToPlanes(g)
	copy(o.inTensor.GetData(), state[:])

	if err := o.session.Run(); err != nil {
		return policy, 0, fmt.Errorf("oracle: Run: %w", err)
	}

	copy(policy[:], o.outPol.GetData())
	valData := o.outVal.GetData()
	if len(valData) > 0 {
		value = valData[0]
	}
	return policy, value, nil
}
