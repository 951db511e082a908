package accountapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "typetutor.account.v1.AccountService"

// Full method names, as seen by interceptors.
const (
	LoginMethod               = "/" + ServiceName + "/Login"
	RegisterMethod            = "/" + ServiceName + "/Register"
	FetchProfileMethod        = "/" + ServiceName + "/FetchProfile"
	UpdateProfileMethod       = "/" + ServiceName + "/UpdateProfile"
	RequestAvatarUploadMethod = "/" + ServiceName + "/RequestAvatarUpload"
	LeaderboardMethod         = "/" + ServiceName + "/Leaderboard"
)

// AuthenticatedMethods lists the calls that require a bearer token.
var AuthenticatedMethods = map[string]bool{
	FetchProfileMethod:        true,
	UpdateProfileMethod:       true,
	RequestAvatarUploadMethod: true,
}

// AccountServer is implemented by the account server. Every method takes the
// request DTO and answers with an Envelope, both encoded with ToStruct.
type AccountServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FetchProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RequestAvatarUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Leaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAccountServer attaches srv to a gRPC server.
func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, AccountServer.Login)},
		{MethodName: "Register", Handler: unaryHandler(RegisterMethod, AccountServer.Register)},
		{MethodName: "FetchProfile", Handler: unaryHandler(FetchProfileMethod, AccountServer.FetchProfile)},
		{MethodName: "UpdateProfile", Handler: unaryHandler(UpdateProfileMethod, AccountServer.UpdateProfile)},
		{MethodName: "RequestAvatarUpload", Handler: unaryHandler(RequestAvatarUploadMethod, AccountServer.RequestAvatarUpload)},
		{MethodName: "Leaderboard", Handler: unaryHandler(LeaderboardMethod, AccountServer.Leaderboard)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "typetutor/account/v1",
}

type unaryCall func(AccountServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
