package pronotev1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	MessageService_SendMessage_FullMethodName      = "/pronote.v1.MessageService/SendMessage"
	MessageService_ListConversation_FullMethodName = "/pronote.v1.MessageService/ListConversation"
)

type MessageServiceServer interface {
	SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error)
	ListConversation(context.Context, *ListConversationRequest) (*ListConversationResponse, error)
}

var MessageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pronote.v1.MessageService",
	HandlerType: (*MessageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendMessage", Handler: unaryHandler(MessageService_SendMessage_FullMethodName, MessageServiceServer.SendMessage)},
		{MethodName: "ListConversation", Handler: unaryHandler(MessageService_ListConversation_FullMethodName, MessageServiceServer.ListConversation)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pronote/v1/message",
}

func RegisterMessageServiceServer(s grpc.ServiceRegistrar, srv MessageServiceServer) {
	s.RegisterService(&MessageService_ServiceDesc, srv)
}

type MessageServiceClient interface {
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ListConversation(ctx context.Context, in *ListConversationRequest, opts ...grpc.CallOption) (*ListConversationResponse, error)
}

type messageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMessageServiceClient(cc grpc.ClientConnInterface) MessageServiceClient {
	return &messageServiceClient{cc}
}

func (c *messageServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MessageService_SendMessage_FullMethodName, in, opts)
}

func (c *messageServiceClient) ListConversation(ctx context.Context, in *ListConversationRequest, opts ...grpc.CallOption) (*ListConversationResponse, error) {
	return invoke[ListConversationResponse](ctx, c.cc, MessageService_ListConversation_FullMethodName, in, opts)
}
