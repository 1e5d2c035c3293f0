package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/taskledger/internal/cryptox"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/auth"
)

// EnvSecret, when set, supplies the signing secret without a prompt.
const EnvSecret = "TASKLEDGER_SECRET"

// mintToken signs an identity token for an address with the server secret.
func mintToken(args []string, _ io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.SetOutput(out)
	validity := fs.Duration("validity", 24*time.Hour, "token lifetime (0 = no expiry)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: token <address>", ErrUsage)
	}

	addr, err := identity.ParseMember(fs.Arg(0))
	if err != nil {
		return err
	}

	secret := []byte(os.Getenv(EnvSecret))
	if len(secret) == 0 {
		secret, err = GetSecret("-Enter server secret", out)
		if err != nil {
			return err
		}
	}

	defer cryptox.Wipe(secret)

	token, err := auth.GenerateToken(addr, secret, *validity)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
