// Package environment records the deployment stage for the current process
// so any package can branch on it without threading configuration through.
package environment

import "sync"

const (
	Dev     = "dev"
	Prod    = "prod"
	Test    = "test"
	Staging = "staging"
)

var current = Test
var once sync.Once

// SetCurrent should be called once at startup to record the deployment stage.
func SetCurrent(env string) {
	once.Do(func() {
		switch env {
		case Dev, Test, Staging, Prod:
			current = env
		default:
			panic("unexpected environment: " + env)
		}
	})
}

func GetCurrent() string {
	return current
}

func IsTest() bool {
	return current == Test
}

func IsDev() bool {
	return current == Dev
}

func IsProd() bool {
	return current == Prod
}
