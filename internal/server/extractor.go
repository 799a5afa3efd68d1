package server

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/ledger"
)

const (
	ServiceName   = "invoice.v1.InvoiceExtractor"
	ExtractMethod = "/" + ServiceName + "/Extract"
)

// ExtractorServer handles Extract calls. Requests and responses are
// google.protobuf.Struct so no generated stubs are needed.
type ExtractorServer interface {
	Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func extractHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractorServer).Extract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExtractMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExtractorServer).Extract(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ExtractorServiceDesc describes invoice.v1.InvoiceExtractor.
var ExtractorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExtractorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: extractHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "invoice/v1/extractor.proto",
}

func RegisterExtractorServer(s grpc.ServiceRegistrar, srv ExtractorServer) {
	s.RegisterService(&ExtractorServiceDesc, srv)
}

// Processor is satisfied by *core.Processor.
type Processor interface {
	Process(ctx context.Context, path string) *core.Envelope
}

// ExtractionService processes documents found under a fixed root.
type ExtractionService struct {
	proc     Processor
	root     string
	recorder *ledger.Recorder
	logger   *slog.Logger
}

type Option func(*ExtractionService)

// WithRecorder enables the "record" request flag.
func WithRecorder(r *ledger.Recorder) Option {
	return func(s *ExtractionService) { s.recorder = r }
}

func NewExtractionService(proc Processor, root string, logger *slog.Logger, opts ...Option) (*ExtractionService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, common.WrapError(err, "resolve document root")
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	s := &ExtractionService{proc: proc, root: abs, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

var _ ExtractorServer = (*ExtractionService)(nil)

// Extract expects {"path": "...", "record": bool?}. The response is the
// envelope, plus a "ledger" list of outcomes when recording was asked for.
func (s *ExtractionService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	rel := strings.TrimSpace(fields["path"].GetStringValue())

	v := common.NewValidator().Field("path", rel, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	path, err := s.resolve(rel)
	if err != nil {
		s.logger.Warn("rejected path", "path", rel, "error", err)
		return nil, common.PermissionDeniedError(err.Error())
	}

	env := s.proc.Process(ctx, path)
	out, err := env.AsMap()
	if err != nil {
		return nil, common.InternalError("encode envelope")
	}

	if fields["record"].GetBoolValue() && env.Success {
		if s.recorder == nil {
			return nil, common.FailedPreconditionError("ledger is not configured")
		}
		outcomes, err := s.record(ctx, env, path)
		if err != nil {
			s.logger.Error("ledger write failed", "path", path, "error", err)
			return nil, common.ToStatus(err, "ledger write failed")
		}
		out["ledger"] = outcomes
	}

	resp, err := structpb.NewStruct(out)
	if err != nil {
		return nil, common.InternalError("encode envelope")
	}
	return resp, nil
}

func (s *ExtractionService) record(ctx context.Context, env *core.Envelope, path string) ([]any, error) {
	outcomes := make([]any, 0, len(env.Records))
	for _, rec := range env.Records {
		appended, err := s.recorder.Record(ctx, ledger.EntryFromRecord(rec, path))
		if err != nil {
			return nil, err
		}
		if appended {
			outcomes = append(outcomes, ledger.OutcomeAppended)
		} else {
			outcomes = append(outcomes, ledger.OutcomeDuplicate)
		}
	}
	return outcomes, nil
}

var errOutsideRoot = errors.New("path is outside the document root")

// resolve maps p onto the document root. Relative paths are joined to the
// root; absolute ones must already be inside it.
func (s *ExtractionService) resolve(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return p, nil
}
