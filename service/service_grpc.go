package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "service.FullNodeService"

// FullNodeServiceClient is the client API of a full node.
type FullNodeServiceClient interface {
	MineBlock(ctx context.Context, in *MineBlockRequest, opts ...grpc.CallOption) (*MineBlockResponse, error)
	GetChain(ctx context.Context, in *GetChainRequest, opts ...grpc.CallOption) (*GetChainResponse, error)
	AddTransaction(ctx context.Context, in *AddTransactionRequest, opts ...grpc.CallOption) (*AddTransactionResponse, error)
	ConnectNodes(ctx context.Context, in *ConnectNodesRequest, opts ...grpc.CallOption) (*ConnectNodesResponse, error)
	CheckValidity(ctx context.Context, in *CheckValidityRequest, opts ...grpc.CallOption) (*CheckValidityResponse, error)
	ReplaceChain(ctx context.Context, in *ReplaceChainRequest, opts ...grpc.CallOption) (*ReplaceChainResponse, error)
}

type fullNodeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFullNodeServiceClient(cc grpc.ClientConnInterface) FullNodeServiceClient {
	return &fullNodeServiceClient{cc}
}

func (c *fullNodeServiceClient) invoke(ctx context.Context, method string, in interface{}, out interface{}, opts []grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(CodecName))
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *fullNodeServiceClient) MineBlock(ctx context.Context, in *MineBlockRequest, opts ...grpc.CallOption) (*MineBlockResponse, error) {
	out := new(MineBlockResponse)
	if err := c.invoke(ctx, "MineBlock", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) GetChain(ctx context.Context, in *GetChainRequest, opts ...grpc.CallOption) (*GetChainResponse, error) {
	out := new(GetChainResponse)
	if err := c.invoke(ctx, "GetChain", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) AddTransaction(ctx context.Context, in *AddTransactionRequest, opts ...grpc.CallOption) (*AddTransactionResponse, error) {
	out := new(AddTransactionResponse)
	if err := c.invoke(ctx, "AddTransaction", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) ConnectNodes(ctx context.Context, in *ConnectNodesRequest, opts ...grpc.CallOption) (*ConnectNodesResponse, error) {
	out := new(ConnectNodesResponse)
	if err := c.invoke(ctx, "ConnectNodes", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) CheckValidity(ctx context.Context, in *CheckValidityRequest, opts ...grpc.CallOption) (*CheckValidityResponse, error) {
	out := new(CheckValidityResponse)
	if err := c.invoke(ctx, "CheckValidity", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) ReplaceChain(ctx context.Context, in *ReplaceChainRequest, opts ...grpc.CallOption) (*ReplaceChainResponse, error) {
	out := new(ReplaceChainResponse)
	if err := c.invoke(ctx, "ReplaceChain", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// FullNodeServiceServer is the server API of a full node.
type FullNodeServiceServer interface {
	MineBlock(context.Context, *MineBlockRequest) (*MineBlockResponse, error)
	GetChain(context.Context, *GetChainRequest) (*GetChainResponse, error)
	AddTransaction(context.Context, *AddTransactionRequest) (*AddTransactionResponse, error)
	ConnectNodes(context.Context, *ConnectNodesRequest) (*ConnectNodesResponse, error)
	CheckValidity(context.Context, *CheckValidityRequest) (*CheckValidityResponse, error)
	ReplaceChain(context.Context, *ReplaceChainRequest) (*ReplaceChainResponse, error)
}

// UnimplementedFullNodeServiceServer can be embedded to have forward compatible implementations.
type UnimplementedFullNodeServiceServer struct{}

func (UnimplementedFullNodeServiceServer) MineBlock(context.Context, *MineBlockRequest) (*MineBlockResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MineBlock not implemented")
}
func (UnimplementedFullNodeServiceServer) GetChain(context.Context, *GetChainRequest) (*GetChainResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetChain not implemented")
}
func (UnimplementedFullNodeServiceServer) AddTransaction(context.Context, *AddTransactionRequest) (*AddTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddTransaction not implemented")
}
func (UnimplementedFullNodeServiceServer) ConnectNodes(context.Context, *ConnectNodesRequest) (*ConnectNodesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConnectNodes not implemented")
}
func (UnimplementedFullNodeServiceServer) CheckValidity(context.Context, *CheckValidityRequest) (*CheckValidityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckValidity not implemented")
}
func (UnimplementedFullNodeServiceServer) ReplaceChain(context.Context, *ReplaceChainRequest) (*ReplaceChainResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReplaceChain not implemented")
}

func RegisterFullNodeServiceServer(s grpc.ServiceRegistrar, srv FullNodeServiceServer) {
	s.RegisterService(&FullNodeServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc method handler.
func unaryHandler[Req any, Resp any](method string, call func(FullNodeServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FullNodeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(FullNodeServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var FullNodeServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FullNodeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("MineBlock", FullNodeServiceServer.MineBlock),
		unaryHandler("GetChain", FullNodeServiceServer.GetChain),
		unaryHandler("AddTransaction", FullNodeServiceServer.AddTransaction),
		unaryHandler("ConnectNodes", FullNodeServiceServer.ConnectNodes),
		unaryHandler("CheckValidity", FullNodeServiceServer.CheckValidity),
		unaryHandler("ReplaceChain", FullNodeServiceServer.ReplaceChain),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "service.FullNodeService",
}
