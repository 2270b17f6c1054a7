// Package benchpb holds the protobuf messages exchanged with dispatch handlers.
package benchpb

//go:generate protoc --go_out=. --go_opt=paths=source_relative benchmark.proto
