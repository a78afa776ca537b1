/*
Package gss implements the RFC 3645 GSS-TSIG security context on top of a
pure-Go Kerberos implementation. It produces the tsig.SecurityContext that
a GSS-TSIG key delegates its MAC computation to.

The TKEY exchange itself is driven by the caller; this package only
handles the token-level GSS state:

	cc, err := client.NewFromCCache(cache, cfg)
	if err != nil {
	        panic(err)
	}

	ctx, token, err := gss.NewContext(cc, gss.GenerateSPN("ns.example.com"))
	if err != nil {
	        panic(err)
	}

	keyname, err := gss.GenerateTKEYName("ns.example.com")
	if err != nil {
	        panic(err)
	}

	// Place token in a TKEY query named keyname with mode
	// tsig.TkeyModeGSS, exchange it with the server, then feed the
	// TKEY answer back with ctx.Step (or via tsig.Adapter) to complete
	// the context.

	key, err := tsig.NewGSSKey(keyname, ctx)
	if err != nil {
	        panic(err)
	}

	// Sign and verify with tsig.Generate and tsig.Verify as usual.
*/
package gss
