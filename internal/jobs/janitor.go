package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Janitor purges terminal jobs past the retention window on an hourly
// cron schedule. Terminal rows are kept around for a while so operators
// can inspect failed deliveries.
type Janitor struct {
	Repo      *Repo
	Retention time.Duration
	Log       zerolog.Logger

	cron *cron.Cron
}

func (j *Janitor) Start() {
	j.cron = cron.New()
	_, err := j.cron.AddFunc("@hourly", j.purge)
	if err != nil {
		j.Log.Error().Err(err).Msg("janitor schedule rejected")
		return
	}
	j.cron.Start()
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Janitor) purge() {
	n, err := j.Repo.PurgeTerminal(j.Retention)
	if err != nil {
		j.Log.Error().Err(err).Msg("job purge failed")
		return
	}
	if n > 0 {
		j.Log.Info().Int64("purged", n).Msg("purged terminal jobs")
	}
}
