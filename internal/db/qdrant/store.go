// Package qdrant implements db.Store on a remote Qdrant over gRPC.
package qdrant

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/kailas-cloud/careerdex/internal/db"
)

var _ db.Store = (*Store)(nil)

const defaultGRPCPort = "6334"

type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Count(ctx context.Context, in *pb.CountPoints, opts ...grpc.CallOption) (*pb.CountResponse, error)
	CreateFieldIndex(
		ctx context.Context, in *pb.CreateFieldIndexCollection, opts ...grpc.CallOption,
	) (*pb.PointsOperationResponse, error)
}

type collectionsAPI interface {
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	CollectionExists(
		ctx context.Context, in *pb.CollectionExistsRequest, opts ...grpc.CallOption,
	) (*pb.CollectionExistsResponse, error)
}

type healthAPI interface {
	HealthCheck(ctx context.Context, in *pb.HealthCheckRequest, opts ...grpc.CallOption) (*pb.HealthCheckReply, error)
}

// Config holds connection parameters for a Qdrant store.
type Config struct {
	// URL of the gRPC endpoint, e.g. https://xyz.cloud.qdrant.io:6334.
	URL    string
	APIKey string
}

// Store is the sole owner of all Qdrant operations.
type Store struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	health      healthAPI
}

// NewStore creates a Store connected to Qdrant. The connection is lazy: use
// Ping to verify reachability.
func NewStore(cfg Config) (*Store, error) {
	target, useTLS, err := parseTarget(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts := []grpc.DialOption{grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey))}
	if useTLS {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", target, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		health:      pb.NewQdrantClient(conn),
	}, nil
}

// NewWithClients creates a Store from explicit gRPC clients.
func NewWithClients(points pointsAPI, collections collectionsAPI, health healthAPI) *Store {
	return &Store{points: points, collections: collections, health: health}
}

// Driver names the backend.
func (s *Store) Driver() string { return "qdrant" }

// Ping calls the Qdrant health check.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.health.HealthCheck(ctx, &pb.HealthCheckRequest{}); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context, method string, req, reply any,
		cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption,
	) error {
		if key != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// parseTarget turns a URL into a gRPC target. https implies TLS; a missing
// port defaults to 6334.
func parseTarget(raw string) (string, bool, error) {
	if raw == "" {
		return "", false, fmt.Errorf("qdrant: url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("qdrant: invalid url %q", raw)
	}

	var useTLS bool
	switch u.Scheme {
	case "https", "grpcs":
		useTLS = true
	case "http", "grpc":
	default:
		return "", false, fmt.Errorf("qdrant: unsupported scheme %q", u.Scheme)
	}

	port := u.Port()
	if port == "" {
		port = defaultGRPCPort
	}
	return net.JoinHostPort(u.Hostname(), port), useTLS, nil
}
