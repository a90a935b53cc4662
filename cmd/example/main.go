package main

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-fido/fido2/pkg/engine"
	"github.com/go-fido/fido2/pkg/fido"
	"github.com/go-fido/fido2/pkg/options"
	"github.com/go-fido/fido2/pkg/softtoken"
	"github.com/go-fido/fido2/pkg/sugar"
)

const (
	relyingPartyID   = "localhost"
	relyingPartyName = "Example RP"
)

func main() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))

	eng := softtoken.New(options.WithLogger(logger))
	f := fido.New(eng, options.WithLogger(logger))

	dev, err := sugar.SelectDevice(f)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = dev.Close()
	}()

	info := dev.TransportInfo()
	fmt.Printf("Protocol: %d (v%d.%d.%d)\n", info.Protocol, info.Major, info.Minor, info.Build)
	fmt.Printf("Capabilities: %s\n", info.Capabilities)

	clientData := []byte(`{"type":"webauthn.get","challenge":"example"}`)
	clientDataHash := sha256.Sum256(clientData)

	userID := make([]byte, 32)
	if _, err := rand.Read(userID); err != nil {
		panic(err)
	}

	credCreator, err := f.NewCredentialCreator(fido.CredentialCreationData{
		Type:             engine.ES256,
		ClientDataHash:   clientDataHash[:],
		RelyingPartyID:   relyingPartyID,
		RelyingPartyName: relyingPartyName,
		UserID:           userID,
		UserName:         "john.doe",
		UserDisplayName:  "John Doe",
		ResidentKey:      true,
	})
	if err != nil {
		panic(err)
	}

	cred, err := dev.MakeCredential(credCreator, "")
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = cred.Close()
	}()
	fmt.Printf("Credential ID: %x\n", cred.ID())

	creator, err := f.NewAssertionCreator(fido.AssertionCreationData{
		AllowedCredentialIDs: [][]byte{cred.ID()},
		ClientDataHash:       clientDataHash[:],
		RelyingPartyID:       relyingPartyID,
		Options:              fido.OptionUserPresence,
	})
	if err != nil {
		panic(err)
	}

	assertion, err := dev.GetAssertion(creator, "")
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = assertion.Close()
	}()

	fmt.Printf("Statements: %d\n", assertion.Count())
	for stmt := range assertion.Statements() {
		fmt.Printf("%d) authData=%x sig=%x\n", stmt.Index(), stmt.AuthData(), stmt.Signature())
	}

	fmt.Printf("Verified: %t\n", assertion.HasAnyVerified(cred.PublicKey()))
}
