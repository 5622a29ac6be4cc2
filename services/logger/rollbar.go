package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/identifier"
	"github.com/trezcool/masomo-portal/core/profile"
)

// RollbarLogger reports to rollbar and echoes every entry to a standard logger.
// Arguments are forwarded as is, except profile.Profile values: the first one becomes the
// rollbar person and none of them is sent as data.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// splitProfiles returns the first profile found in args and the remaining non-profile args.
func splitProfiles(args []interface{}) (*profile.Profile, []interface{}) {
	var person *profile.Profile
	rest := make([]interface{}, 0, len(args))
	for _, arg := range args {
		p, ok := arg.(profile.Profile)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if person == nil {
			person = &p
		}
	}
	return person, rest
}

// prepare sets the rollbar person and returns the rollbar arguments.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	person, rest := splitProfiles(args)
	if person != nil {
		rollbar.SetPerson(person.ID, person.Name, person.Email)
	} else {
		rollbar.ClearPerson()
	}
	return append([]interface{}{msg}, rest...)
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("[%s] %s\n", level, msg)
	for _, arg := range args {
		if p, ok := arg.(profile.Profile); ok {
			l.std.Printf("profile=%s cpf=%s\n", p.ID, identifier.Mask(p.CPF))
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	rollbar.Log(level, l.prepare(msg, args)...)
	l.print(level, msg, args)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }

func (l RollbarLogger) Info(msg string, args ...interface{}) { l.log(rollbar.INFO, msg, args) }

func (l RollbarLogger) Warn(msg string, args ...interface{}) { l.log(rollbar.WARN, msg, args) }

func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

// Fatal reports msg as critical, waits for rollbar to flush, then exits.
func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
