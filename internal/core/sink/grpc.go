package sink

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/sdlc-connector/internal/types"
)

// IngestMethod is the unary method the content service exposes. The
// request is a google.protobuf.Struct shaped like Message; the response
// is google.protobuf.Empty.
const IngestMethod = "/sdlc.content.v1.ContentService/Ingest"

// GRPCTransport sends envelopes over a gRPC client connection.
type GRPCTransport struct {
	conn  *grpc.ClientConn
	owned bool
}

// DialGRPC creates a client for target. The connection is plaintext;
// terminate TLS in the mesh. Extra options are appended.
func DialGRPC(target string, opts ...grpc.DialOption) (*GRPCTransport, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &GRPCTransport{conn: conn, owned: true}, nil
}

// NewGRPCTransport wraps an existing connection. Close leaves it open.
func NewGRPCTransport(conn *grpc.ClientConn) *GRPCTransport {
	return &GRPCTransport{conn: conn}
}

func (t *GRPCTransport) Name() string { return "grpc" }

// Send invokes IngestMethod with env.
func (t *GRPCTransport) Send(ctx context.Context, env *types.Envelope) error {
	req, err := MessageStruct(env)
	if err != nil {
		return err
	}
	if err := t.conn.Invoke(ctx, IngestMethod, req, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("invoke %s: %w", IngestMethod, err)
	}
	return nil
}

// Close closes the connection if DialGRPC created it.
func (t *GRPCTransport) Close() error {
	if !t.owned {
		return nil
	}
	return t.conn.Close()
}

// MessageStruct converts env to a protobuf Struct via its JSON form.
// Numbers become doubles.
func MessageStruct(env *types.Envelope) (*structpb.Struct, error) {
	raw, err := json.Marshal(NewMessage(env))
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("convert message: %w", err)
	}
	return s, nil
}
