// generate-token mints a bearer token for manual testing against a running
// instance. The real token issuer lives outside this service; both sides only
// need to share the signing secret.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/codexhub/img-uploader/internal/domain"
	"github.com/codexhub/img-uploader/internal/jwt"
)

func main() {
	var (
		secret = flag.String("secret", "", "token signing secret (required)")
		uid    = flag.String("uid", "", "user id claim (required)")
		email  = flag.String("email", "", "email claim")
		ttl    = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *secret == "" || *uid == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := jwt.New(*secret, *ttl).NewToken(domain.User{Id: *uid, Email: *email})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(token)
}
