package ui

import (
	"context"
	"io"

	"github.com/filedeck/filedeck/apiclient/authsvc"
	"github.com/filedeck/filedeck/apiclient/filesvc"
)

// AuthAPI is the slice of the auth service client the pages consume.
type AuthAPI interface {
	Login(ctx context.Context, creds authsvc.Credentials) (authsvc.LoginResult, error)
	Logout(ctx context.Context) error
	ListUsers(ctx context.Context) ([]authsvc.UserRecord, error)
	CreateUser(ctx context.Context, nu authsvc.NewUser) (authsvc.UserRecord, error)
	DeleteUser(ctx context.Context, id int64) error
}

// FileAPI is the slice of the file service client the dashboard consumes.
type FileAPI interface {
	List(ctx context.Context) ([]filesvc.FileRecord, error)
	Upload(ctx context.Context, filename string, r io.Reader) (filesvc.FileRecord, error)
	Delete(ctx context.Context, id int64) error
	Open(ctx context.Context, id int64, knownFilename string) (filesvc.Download, error)
}
