package object

import "github.com/tomz197/novarush/internal/loop/config"

// MeteorSpawner drops new meteors with a chance and speed that grow with survival time.
type MeteorSpawner struct{}

// NewMeteorSpawner creates a spawner.
func NewMeteorSpawner() *MeteorSpawner {
	return &MeteorSpawner{}
}

// BaseSpeed is the meteor speed before per-meteor jitter.
func BaseSpeed(survivalTime int64) float64 {
	return config.MeteorBaseSpeed + float64(survivalTime)*config.MeteorSpeedPerSec
}

// SpawnChance is the per-tick spawn probability in percent.
func SpawnChance(survivalTime int64) int {
	return config.MeteorSpawnBase + int(survivalTime/config.MeteorSpawnDivisor)
}

// Update rolls for a spawn and hands a new meteor to ctx.Spawner.
// Spawn x lies in [0, width-margin); a screen narrower than the margin spawns at 0.
func (s *MeteorSpawner) Update(ctx UpdateContext) (bool, error) {
	if ctx.Spawner == nil {
		return false, ErrNoSpawner
	}
	if ctx.Rand.Intn(100) >= SpawnChance(ctx.SurvivalTime) {
		return false, nil
	}

	x := 0
	if span := ctx.Screen.Width - config.MeteorSpawnMarginX; span > 0 {
		x = ctx.Rand.Intn(span)
	}
	size := config.MeteorMinSize + ctx.Rand.Intn(config.MeteorSizeRange)
	speed := BaseSpeed(ctx.SurvivalTime) + ctx.Rand.Float64()*config.MeteorSpeedJitter

	ctx.Spawner.Spawn(NewMeteor(float64(x), config.MeteorSpawnY, float64(size), speed))
	return false, nil
}

// Draw is a no-op; spawner is not visible.
func (s *MeteorSpawner) Draw(_ DrawContext) error {
	return nil
}
