package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/ilyakaznacheev/fromenv"
)

// Config is a application configuration structure
type Config struct {
	DBHost        string  `env:"DB_HOST" env-description:"Database host"`
	DBPort        uint16  `env:"DB_PORT" env-description:"Database port" env-default:"5432"`
	DBUser        string  `env:"DB_USER" env-description:"Database user name"`
	DBPassword    *string `env:"DB_PASSWORD" env-description:"Database user password"`
	DBName        string  `env:"DB_NAME" env-description:"Database name"`
	DBConnections int     `env:"DB_CONNECTIONS" env-description:"Total number of database connections" env-default:"10" validate:"gt=0"`
	Host          string  `env:"SRV_HOST" env-description:"Server host" env-default:"localhost"`
	Port          uint16  `env:"SRV_PORT" env-description:"Server port" env-default:"8080"`
	Greeting      string  `env:"GREETING" env-description:"Greeting phrase" env-default:"Hello!"`
}

// Args command-line parameters
type Args struct {
	EnvPath string
}

// ConnectDB connects to an abstract database
func ConnectDB(host string, port uint16, user string, password *string, name string, conn int) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", host, port, user, name)
	if password != nil {
		dsn += " password=" + *password
	}
	db, err := sql.Open("some database", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(conn)
	return db, nil
}

func main() {
	args := ProcessArgs(&Config{})

	// the process environment wins over the .env file
	env := fromenv.Lookuper(fromenv.OSEnv{})
	if args.EnvPath != "" {
		file, err := fromenv.DotEnv(args.EnvPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		env = fromenv.Chain{fromenv.OSEnv{}, file}
	}

	cfg, err := fromenv.Load[Config](fromenv.WithLookuper(env))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// connect to the DB (example)
	ConnectDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBConnections)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s", cfg.Greeting)
	})

	http.ListenAndServe(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), nil)
}

// ProcessArgs processes and handles CLI arguments
func ProcessArgs(cfg interface{}) Args {
	var a Args

	f := flag.NewFlagSet("Example server", 1)
	f.StringVar(&a.EnvPath, "e", "", "Path to .env file")

	fu := f.Usage
	f.Usage = func() {
		fu()
		envHelp, _ := fromenv.GetDescription(cfg, nil)
		fmt.Fprintln(f.Output())
		fmt.Fprintln(f.Output(), envHelp)
	}

	f.Parse(os.Args[1:])
	return a
}
