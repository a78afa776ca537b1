package gss

import (
	"os"
	"os/user"
	"strings"

	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/credentials"
	"github.com/jcmturner/gokrb5/v8/keytab"
)

func loadCache() (*credentials.CCache, error) {
	u, err := user.Current()
	if err != nil {
		return nil, err
	}

	path := "/tmp/krb5cc_" + u.Uid

	env := os.Getenv("KRB5CCNAME")
	if strings.HasPrefix(env, "FILE:") {
		path = strings.SplitN(env, ":", 2)[1]
	}

	return credentials.LoadCCache(path)
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("KRB5_CONFIG")

	if _, err := os.Stat(path); err != nil {
		// List of candidates to try
		try := []string{"/etc/krb5.conf"}

		for _, t := range try {
			if _, err := os.Stat(t); err == nil {
				path = t

				break
			}
		}
	}

	return config.Load(path)
}

// NewContextFromCCache is NewContext with a Kerberos client built from the
// current user's credential cache, honouring KRB5CCNAME and KRB5_CONFIG.
func NewContextFromCCache(spn string, options ...Option) (*Context, []byte, error) {
	cache, err := loadCache()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	cl, err := client.NewFromCCache(cache, cfg, client.DisablePAFXFAST(true))
	if err != nil {
		return nil, nil, err
	}

	return NewContext(cl, spn, options...)
}

// NewContextWithCredentials is NewContext with a Kerberos client logged in
// with the provided credentials.
func NewContextWithCredentials(spn, domain, username, password string, options ...Option) (*Context, []byte, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	cl := client.NewWithPassword(username, domain, password, cfg, client.DisablePAFXFAST(true))

	if err = cl.Login(); err != nil {
		return nil, nil, err
	}

	return NewContext(cl, spn, options...)
}

// NewContextWithKeytab is NewContext with a Kerberos client logged in with
// the keytab at path.
func NewContextWithKeytab(spn, domain, username, path string, options ...Option) (*Context, []byte, error) {
	kt, err := keytab.Load(path)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	cl := client.NewWithKeytab(username, domain, kt, cfg, client.DisablePAFXFAST(true))

	if err = cl.Login(); err != nil {
		return nil, nil, err
	}

	return NewContext(cl, spn, options...)
}
