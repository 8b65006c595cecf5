package common

const (
	// Redis key formats. Lock keys guard a single logical operation and
	// carry short TTLs so a crashed worker cannot wedge the system.
	RedisKeyOrderLock   = "guardian:order:lock:%d:%s"
	RedisKeyMonitorLock = "guardian:monitor:lock:%d"
	RedisKeyLastPrice   = "guardian:price:last"

	// Actors recorded on audit entries.
	ActorSystem = "system"
	ActorUser   = "user"
	ActorTimer  = "auto_timer"
)
