package auth

import "time"

// Strategy issues and verifies the opaque identity credential the storefront
// receives from the auth service. The order core never checks passwords; it
// only authorizes on top of the subject a credential carries.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
}

type Options struct {
	TTL time.Duration
}
