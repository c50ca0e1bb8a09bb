// Command token mints a bearer token for the statement API, signed with
// JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-statement/internal/config"
	"github.com/iliyamo/theater-statement/internal/utils"
)

func main() {
	config.LoadDotEnv()

	sub := flag.String("sub", "", "subject (user id) of the token")
	role := flag.String("role", "CLERK", "role claim")
	ttl := flag.Duration("ttl", config.AccessTTL(), "token lifetime")
	flag.Parse()

	if *sub == "" {
		log.Fatal("-sub is required")
	}
	tok, err := utils.NewAccessToken(os.Getenv("JWT_SECRET"), *sub, *role, *ttl)
	if err != nil {
		log.WithError(err).Fatal("mint token")
	}
	fmt.Println(tok.Token)
	log.WithField("expires", tok.Exp.Format(time.RFC3339)).Info("token issued")
}
