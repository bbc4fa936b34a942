package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnewart/go-clubmember/club"
	"github.com/johnewart/go-clubmember/club/registry"
	"github.com/johnewart/go-clubmember/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"zombiezen.com/go/log"
)

type Service struct {
	registry  *registry.Registry
	metrics   *metrics.MetricsRegistry
	rootToken string
}

type ServiceConfig struct {
	Registry  *registry.Registry
	Metrics   *metrics.MetricsRegistry
	RootToken string
}

func NewClubService(ctx context.Context, config ServiceConfig) (*Service, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("club service needs a registry")
	}
	if config.RootToken == "" {
		return nil, fmt.Errorf("club service needs a root token")
	}

	m := config.Metrics
	if m == nil {
		m = metrics.NewNoopMetricRegistry()
	}

	log.Debugf(ctx, "club service ready, metrics enabled: %v", config.Metrics != nil)
	return &Service{
		registry:  config.Registry,
		metrics:   m,
		rootToken: config.RootToken,
	}, nil
}

type mutation func(ctx context.Context, caller club.Caller, who club.MemberID) error

func (s *Service) AddMember(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return s.mutate(ctx, MethodAddMember, req, s.registry.AddMember)
}

func (s *Service) RemoveMember(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return s.mutate(ctx, MethodRemoveMember, req, s.registry.RemoveMember)
}

func (s *Service) RemoveMemberSelf(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return s.mutate(ctx, MethodRemoveMemberSelf, req, s.registry.RemoveMemberSelf)
}

func (s *Service) Members(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	result, err := s.metrics.TimeGRPCEndpoint(MethodMembers, func() (interface{}, error) {
		members, err := s.registry.Members(ctx)
		if err != nil {
			return nil, err
		}

		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, members.Len())}
		for _, m := range members {
			list.Values = append(list.Values, structpb.NewStringValue(string(m)))
		}
		return list, nil
	})
	if err != nil {
		log.Warnf(ctx, "Unable to list members: %v", err)
		return nil, StatusFromError(err)
	}
	return result.(*structpb.ListValue), nil
}

func (s *Service) mutate(ctx context.Context, method string, req *wrapperspb.StringValue, op mutation) (*emptypb.Empty, error) {
	who := req.GetValue()
	if err := validateMemberID("member id", who); err != nil {
		return nil, err
	}

	origin := OriginFromContext(ctx, s.rootToken)
	if signer, ok := origin.SignedIdentity(); ok {
		if err := validateMemberID(SignerHeader, string(signer)); err != nil {
			return nil, err
		}
	}
	log.Debugf(ctx, "%s(%s) from %v", method, who, origin)

	_, err := s.metrics.TimeGRPCEndpoint(method, func() (interface{}, error) {
		return nil, op(ctx, origin, club.MemberID(who))
	})
	if err != nil {
		return nil, StatusFromError(err)
	}
	return &emptypb.Empty{}, nil
}

// validateMemberID rejects empty ids and ids with surrounding whitespace.
func validateMemberID(what, id string) error {
	switch {
	case id == "":
		return status.Errorf(codes.InvalidArgument, "%s is required", what)
	case strings.TrimSpace(id) != id:
		return status.Errorf(codes.InvalidArgument, "%s %q has surrounding whitespace", what, id)
	default:
		return nil
	}
}

// StatusFromError translates registry rejections into gRPC status codes. Anything that
// is not a rejection is reported as Internal.
func StatusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, club.ErrUnauthorized), errors.Is(err, club.ErrCannotRemoveOtherMember):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, club.ErrGroupFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, club.ErrAlreadyMember):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, club.ErrNotMember):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
