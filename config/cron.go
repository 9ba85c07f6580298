package config

// CronJob pairs a schedule with a job function.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs maps job names to statically configured jobs. Jobs that need a
// database handle register through cron.Register at startup instead.
var CronJobs = map[string]CronJob{}
