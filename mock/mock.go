// Package mock is used to generate mock files for testing.
package mock

//go:generate mockgen -package session -source ../session_iface.go -destination ../mock_session_test.go
//go:generate mockgen -package authz -source ../authz/authz_iface.go -destination ../authz/mock_authz_test.go
