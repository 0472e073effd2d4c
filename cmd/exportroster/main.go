package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"roster-sync/internal/app"
	"roster-sync/internal/config"
	"roster-sync/internal/domain"
	"roster-sync/internal/export"
	"roster-sync/internal/logger"
	"roster-sync/internal/sftpclient"
)

func main() {
	var (
		outPath     = flag.String("out", "out/roster.csv", "output csv path")
		activeOnly  = flag.Bool("active-only", false, "export active employees only")
		uploadSFTP  = flag.Bool("sftp", false, "upload the generated CSV via SFTP")
		backend     = flag.String("backend", "", "remote backend: http or memory (default ROSTER_BACKEND)")
		showMetrics = flag.Bool("metrics", false, "print sync metrics to stderr on exit")
	)
	flag.Parse()

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer rootCancel()

	appLog := logger.NewFromEnv()
	cfg, err := config.Load(appLog)
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}

	a, err := app.New(cfg, appLog, app.Options{})
	if err != nil {
		log.Fatal(err)
	}
	if *showMetrics {
		defer func() {
			if err := a.WriteMetrics(os.Stderr); err != nil {
				log.Printf("WARN: metrics: %v", err)
			}
		}()
	}

	n, err := exportRoster(rootCtx, a, *outPath, *activeOnly)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d employees to %s", n, *outPath)

	if *uploadSFTP {
		remoteName := filepath.Base(*outPath)
		upCfg := sftpConfig(cfg.SFTP)

		upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer upCancel()

		if err := sftpclient.UploadFile(upCtx, upCfg, *outPath, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s%s/%s", upCfg.Addr(), upCfg.RemoteDir, remoteName)
	}
}

// exportRoster loads the collection and writes it to outPath.
func exportRoster(ctx context.Context, a *app.App, outPath string, activeOnly bool) (int, error) {
	if err := a.Engine.Load(ctx); err != nil {
		return 0, err
	}
	records := a.Engine.Roster().Snapshot()
	if activeOnly {
		records = filterActive(records)
	}
	if err := export.WriteRosterFile(outPath, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func filterActive(records []domain.Employee) []domain.Employee {
	out := make([]domain.Employee, 0, len(records))
	for _, e := range records {
		if e.Active() {
			out = append(out, e)
		}
	}
	return out
}

func sftpConfig(c config.SFTPConfig) sftpclient.Config {
	return sftpclient.Config{
		Host:                  c.Host,
		Port:                  c.Port,
		User:                  c.User,
		Pass:                  c.Pass,
		RemoteDir:             c.RemoteDir,
		InsecureIgnoreHostKey: c.InsecureIgnoreHostKey,
		KnownHostsFile:        c.KnownHostsFile,
	}
}
