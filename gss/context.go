package gss

import (
	"errors"
	"sync"

	"github.com/Keeper-of-the-Keys/tsig"
	"github.com/go-logr/logr"
	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/crypto"
	"github.com/jcmturner/gokrb5/v8/gssapi"
	"github.com/jcmturner/gokrb5/v8/iana/flags"
	"github.com/jcmturner/gokrb5/v8/iana/keyusage"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/spnego"
	"github.com/jcmturner/gokrb5/v8/types"
)

var _ tsig.SecurityContext = (*Context)(nil)

var (
	errEstablished    = errors.New("gss: security context already established")
	errNotEstablished = errors.New("gss: security context not established")
)

// Context is a Kerberos-backed GSS security context for one negotiated
// TKEY. It is created in the initiator role with the AP-REQ token to send
// to the server and completed by feeding the AP-REP token from the TKEY
// answer into Step. It is safe for concurrent use, although signing
// imposes a token sequence.
type Context struct {
	m           sync.Mutex
	client      *client.Client
	key         types.EncryptionKey
	seq         uint64
	ss          *SequenceState
	established bool
	logger      logr.Logger
}

// NewContext obtains a service ticket for spn with the authenticated
// Kerberos client cl and returns a fresh security context along with the
// initial AP-REQ token for the caller to place in its TKEY query.
func NewContext(cl *client.Client, spn string, options ...Option) (*Context, []byte, error) {
	c := &Context{
		client: cl,
		logger: logr.Discard(),
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, nil, err
		}
	}

	tkt, key, err := cl.GetServiceTicket(spn)
	if err != nil {
		return nil, nil, err
	}

	apreq, err := spnego.NewKRB5TokenAPREQ(cl, tkt, key, []int{gssapi.ContextFlagMutual, gssapi.ContextFlagReplay, gssapi.ContextFlagInteg}, []int{flags.APOptionMutualRequired})
	if err != nil {
		return nil, nil, err
	}

	if err = apreq.APReq.DecryptAuthenticator(key); err != nil {
		return nil, nil, err
	}

	b, err := apreq.Marshal()
	if err != nil {
		return nil, nil, err
	}

	c.key = key
	c.seq = uint64(apreq.APReq.Authenticator.SeqNumber)

	return c, b, nil
}

// Step feeds the AP-REP handshake token from the TKEY answer into the
// context, completing it. There is no further token to send so the
// returned token is always nil.
func (c *Context) Step(token []byte) ([]byte, error) {
	c.m.Lock()
	defer c.m.Unlock()

	if c.established {
		return nil, errEstablished
	}

	var aprep spnego.KRB5Token
	if err := aprep.Unmarshal(token); err != nil {
		return nil, err
	}

	if aprep.IsKRBError() {
		return nil, errors.New("gss: received Kerberos error")
	}

	if !aprep.IsAPRep() {
		return nil, errors.New("gss: didn't receive an AP_REP")
	}

	b, err := crypto.DecryptEncPart(aprep.APRep.EncPart, c.key, keyusage.AP_REP_ENCPART)
	if err != nil {
		return nil, err
	}

	var payload messages.EncAPRepPart
	if err := payload.Unmarshal(b); err != nil {
		return nil, err
	}

	c.key = payload.Subkey
	c.ss = NewSequenceState(uint64(payload.SequenceNumber), true, false, true)
	c.established = true

	c.logger.V(1).Info("security context established")

	return nil, nil
}

// GetSignature produces a MIC token over data using the negotiated subkey.
func (c *Context) GetSignature(data []byte) ([]byte, error) {
	c.m.Lock()
	defer c.m.Unlock()

	if !c.established {
		return nil, errNotEstablished
	}

	token := gssapi.MICToken{
		Flags:     gssapi.MICTokenFlagAcceptorSubkey,
		SndSeqNum: c.seq,
		Payload:   data,
	}

	if err := token.SetChecksum(c.key, keyusage.GSSAPI_INITIATOR_SIGN); err != nil {
		return nil, err
	}

	b, err := token.Marshal()
	if err != nil {
		return nil, err
	}

	c.seq++

	return b, nil
}

// VerifySignature checks the MIC token mac over data, guarding against
// token replay.
func (c *Context) VerifySignature(data, mac []byte) error {
	c.m.Lock()
	defer c.m.Unlock()

	if !c.established {
		return errNotEstablished
	}

	var token gssapi.MICToken
	if err := token.Unmarshal(mac, true); err != nil {
		return err
	}

	token.Payload = data

	if err := c.ss.Check(token.SndSeqNum); err != nil {
		return err
	}

	if _, err := token.Verify(c.key, keyusage.GSSAPI_ACCEPTOR_SIGN); err != nil {
		return err
	}

	return nil
}

// Close destroys the underlying Kerberos client session. A tsig.Keyring
// closes the contexts held by its GSS keys through this method.
func (c *Context) Close() error {
	c.client.Destroy()

	return nil
}
