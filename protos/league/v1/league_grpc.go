package leaguev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "league.v1.LeagueStatsService"

const (
	LeagueStatsService_ImportMatches_FullMethodName = "/league.v1.LeagueStatsService/ImportMatches"
	LeagueStatsService_ListMatches_FullMethodName   = "/league.v1.LeagueStatsService/ListMatches"
	LeagueStatsService_GetStandings_FullMethodName  = "/league.v1.LeagueStatsService/GetStandings"
	LeagueStatsService_GetForm_FullMethodName       = "/league.v1.LeagueStatsService/GetForm"
	LeagueStatsService_ListLeagues_FullMethodName   = "/league.v1.LeagueStatsService/ListLeagues"
	LeagueStatsService_UpdateLeague_FullMethodName  = "/league.v1.LeagueStatsService/UpdateLeague"
)

type LeagueStatsServiceClient interface {
	ImportMatches(ctx context.Context, in *ImportMatchesRequest, opts ...grpc.CallOption) (*ImportMatchesResponse, error)
	ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error)
	GetStandings(ctx context.Context, in *GetStandingsRequest, opts ...grpc.CallOption) (*GetStandingsResponse, error)
	GetForm(ctx context.Context, in *GetFormRequest, opts ...grpc.CallOption) (*GetFormResponse, error)
	ListLeagues(ctx context.Context, in *ListLeaguesRequest, opts ...grpc.CallOption) (*ListLeaguesResponse, error)
	UpdateLeague(ctx context.Context, in *UpdateLeagueRequest, opts ...grpc.CallOption) (*UpdateLeagueResponse, error)
}

type leagueStatsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLeagueStatsServiceClient(cc grpc.ClientConnInterface) LeagueStatsServiceClient {
	return &leagueStatsServiceClient{cc: cc}
}

func (c *leagueStatsServiceClient) ImportMatches(ctx context.Context, in *ImportMatchesRequest, opts ...grpc.CallOption) (*ImportMatchesResponse, error) {
	return invoke[ImportMatchesResponse](ctx, c.cc, LeagueStatsService_ImportMatches_FullMethodName, in, opts...)
}

func (c *leagueStatsServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return invoke[ListMatchesResponse](ctx, c.cc, LeagueStatsService_ListMatches_FullMethodName, in, opts...)
}

func (c *leagueStatsServiceClient) GetStandings(ctx context.Context, in *GetStandingsRequest, opts ...grpc.CallOption) (*GetStandingsResponse, error) {
	return invoke[GetStandingsResponse](ctx, c.cc, LeagueStatsService_GetStandings_FullMethodName, in, opts...)
}

func (c *leagueStatsServiceClient) GetForm(ctx context.Context, in *GetFormRequest, opts ...grpc.CallOption) (*GetFormResponse, error) {
	return invoke[GetFormResponse](ctx, c.cc, LeagueStatsService_GetForm_FullMethodName, in, opts...)
}

func (c *leagueStatsServiceClient) ListLeagues(ctx context.Context, in *ListLeaguesRequest, opts ...grpc.CallOption) (*ListLeaguesResponse, error) {
	return invoke[ListLeaguesResponse](ctx, c.cc, LeagueStatsService_ListLeagues_FullMethodName, in, opts...)
}

func (c *leagueStatsServiceClient) UpdateLeague(ctx context.Context, in *UpdateLeagueRequest, opts ...grpc.CallOption) (*UpdateLeagueResponse, error) {
	return invoke[UpdateLeagueResponse](ctx, c.cc, LeagueStatsService_UpdateLeague_FullMethodName, in, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	req, err := ToStruct(in)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}

	resp := new(Resp)
	if err := FromStruct(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type LeagueStatsServiceServer interface {
	ImportMatches(context.Context, *ImportMatchesRequest) (*ImportMatchesResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	GetStandings(context.Context, *GetStandingsRequest) (*GetStandingsResponse, error)
	GetForm(context.Context, *GetFormRequest) (*GetFormResponse, error)
	ListLeagues(context.Context, *ListLeaguesRequest) (*ListLeaguesResponse, error)
	UpdateLeague(context.Context, *UpdateLeagueRequest) (*UpdateLeagueResponse, error)
}

// UnimplementedLeagueStatsServiceServer must be embedded to have forward
// compatible implementations.
type UnimplementedLeagueStatsServiceServer struct{}

func (UnimplementedLeagueStatsServiceServer) ImportMatches(context.Context, *ImportMatchesRequest) (*ImportMatchesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ImportMatches not implemented")
}

func (UnimplementedLeagueStatsServiceServer) ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMatches not implemented")
}

func (UnimplementedLeagueStatsServiceServer) GetStandings(context.Context, *GetStandingsRequest) (*GetStandingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStandings not implemented")
}

func (UnimplementedLeagueStatsServiceServer) GetForm(context.Context, *GetFormRequest) (*GetFormResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetForm not implemented")
}

func (UnimplementedLeagueStatsServiceServer) ListLeagues(context.Context, *ListLeaguesRequest) (*ListLeaguesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListLeagues not implemented")
}

func (UnimplementedLeagueStatsServiceServer) UpdateLeague(context.Context, *UpdateLeagueRequest) (*UpdateLeagueResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateLeague not implemented")
}

func RegisterLeagueStatsServiceServer(s grpc.ServiceRegistrar, srv LeagueStatsServiceServer) {
	s.RegisterService(&LeagueStatsService_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](method string, call func(LeagueStatsServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed := new(Req)
			if err := FromStruct(req.(*structpb.Struct), typed); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}

			resp, err := call(srv.(LeagueStatsServiceServer), ctx, typed)
			if err != nil {
				return nil, err
			}
			return ToStruct(resp)
		}

		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		return interceptor(ctx, in, info, handler)
	}
}

var LeagueStatsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LeagueStatsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ImportMatches",
			Handler:    unaryHandler(LeagueStatsService_ImportMatches_FullMethodName, LeagueStatsServiceServer.ImportMatches),
		},
		{
			MethodName: "ListMatches",
			Handler:    unaryHandler(LeagueStatsService_ListMatches_FullMethodName, LeagueStatsServiceServer.ListMatches),
		},
		{
			MethodName: "GetStandings",
			Handler:    unaryHandler(LeagueStatsService_GetStandings_FullMethodName, LeagueStatsServiceServer.GetStandings),
		},
		{
			MethodName: "GetForm",
			Handler:    unaryHandler(LeagueStatsService_GetForm_FullMethodName, LeagueStatsServiceServer.GetForm),
		},
		{
			MethodName: "ListLeagues",
			Handler:    unaryHandler(LeagueStatsService_ListLeagues_FullMethodName, LeagueStatsServiceServer.ListLeagues),
		},
		{
			MethodName: "UpdateLeague",
			Handler:    unaryHandler(LeagueStatsService_UpdateLeague_FullMethodName, LeagueStatsServiceServer.UpdateLeague),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "league/v1/league.proto",
}
