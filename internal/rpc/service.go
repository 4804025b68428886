// Package rpc serves gameplan validation over gRPC. Requests and responses are
// google.protobuf.Struct values holding the flat gameplan record and the result.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

const (
	ServiceName = "gameplan.v1.GameplanService"

	validateMethod      = "/" + ServiceName + "/Validate"
	distributionsMethod = "/" + ServiceName + "/ComputeDistributions"

	// NamingKey is the request metadata key selecting legacy pass field names.
	NamingKey    = "x-gameplan-naming"
	NamingLegacy = "legacy"
)

// GameplanServer is the server API for the gameplan service.
type GameplanServer interface {
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeDistributions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGameplanServer registers srv on s.
func RegisterGameplanServer(s grpc.ServiceRegistrar, srv GameplanServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameplanServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Validate", Handler: validateHandler},
		{MethodName: "ComputeDistributions", Handler: distributionsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gameplan/v1/gameplan.proto",
}

func validateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameplanServer).Validate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: validateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameplanServer).Validate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func distributionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameplanServer).ComputeDistributions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: distributionsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameplanServer).ComputeDistributions(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the gameplan service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Validate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, validateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ComputeDistributions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, distributionsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Service implements GameplanServer.
type Service struct {
	validator *validation.Validator
	calc      *distribution.Calculator
	canModify bool
}

func NewService(v *validation.Validator, calc *distribution.Calculator, canModify bool) *Service {
	return &Service{validator: v, calc: calc, canModify: canModify}
}

func (s *Service) Validate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	g, err := decodeGameplan(ctx, in)
	if err != nil {
		return nil, err
	}
	return encode(s.validator.Validate(g, s.canModify))
}

func (s *Service) ComputeDistributions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	g, err := decodeGameplan(ctx, in)
	if err != nil {
		return nil, err
	}
	return encode(s.calc.Compute(g))
}

func decodeGameplan(ctx context.Context, in *structpb.Struct) (*gameplan.Gameplan, error) {
	if in == nil || len(in.GetFields()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "gameplan record is required")
	}
	b, err := in.MarshalJSON()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "read record: %v", err)
	}
	g, err := gameplan.DecodeRecord(b, legacyNaming(ctx))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return g, nil
}

func legacyNaming(ctx context.Context) bool {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return false
	}
	for _, v := range md.Get(NamingKey) {
		if strings.EqualFold(strings.TrimSpace(v), NamingLegacy) {
			return true
		}
	}
	return false
}

// encode converts a JSON-tagged value into a Struct.
func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// Decode unpacks a response Struct into v.
func Decode(s *structpb.Struct, v any) error {
	b, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return json.Unmarshal(b, v)
}
