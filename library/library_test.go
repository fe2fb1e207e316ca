package library

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

type pilot struct {
	lib   *Library
	agent *agent.Agent
	ship  *model.Ship
	clock *model.SimClock
	world []*model.Ship
}

func newPilot(t *testing.T) *pilot {
	t.Helper()
	p := &pilot{
		ship:  model.NewShip(1, "Cobra", model.ClassShip),
		clock: model.NewSimClock(0),
	}
	p.world = []*model.Ship{p.ship}
	p.lib = New(DefaultProfile(), RangeScanner(func() []*model.Ship { return p.world }), rand.New(rand.NewPCG(1, 2)))
	p.agent = agent.New(p.ship, p.clock, agent.WithHandlerSets(p.lib.HandlerSets()))
	require.NoError(t, p.lib.Prepare(p.agent))
	return p
}

func (p *pilot) spawn(id int, name string, class model.ScanClass, pos model.Vector) *model.Ship {
	s := model.NewShip(id, name, class)
	s.Position = pos
	p.world = append(p.world, s)
	return s
}

func (p *pilot) tick(dt float64) error {
	now := p.clock.Advance(dt)
	if !p.agent.Wake(now) {
		return nil
	}
	_, err := p.ship.Fire(agent.EventAwoken)
	return err
}

func (p *pilot) condition(t *testing.T, name string) bool {
	t.Helper()
	c, ok := p.lib.Registry().Condition(name)
	require.True(t, ok, name)
	met, err := c(p.agent)
	require.NoError(t, err)
	return met
}

func (p *pilot) configure(t *testing.T, name string) {
	t.Helper()
	c, ok := p.lib.Registry().Action(name)
	require.True(t, ok, name)
	require.NoError(t, c(p.agent))
}

func (p *pilot) run(t *testing.T, name string) {
	t.Helper()
	b, ok := p.lib.Registry().Behaviour(name)
	require.True(t, ok, name)
	if b.Handlers != "" {
		require.NoError(t, p.agent.InstallHandlerSet(b.Handlers))
	}
	require.NoError(t, b.Run(p.agent))
}

func TestRegisterNamesEveryLeaf(t *testing.T) {
	p := newPilot(t)
	conds, actions, behaviours := p.lib.Registry().Names()
	assert.Subset(t, conds, []string{
		"inCombat", "losingCombat", "hasTarget", "hasWaypoint", "nearDestination",
		"scannerContainsHostiles", "isGroupLeader", "hasGroup", "cargoDemandsMet", "energyLow",
	})
	assert.Subset(t, actions, []string{
		"checkScanner", "acquireCombatTarget", "setWaypoint", "setDestinationToWaypoint",
		"appointGroupLeader", "forgetCargoDemand",
	})
	assert.ElementsMatch(t, []string{
		"idle", "reconsider", "fleeCombat", "destroyCurrentTarget",
		"approachDestination", "landOnPlanet", "selfDestruct",
	}, behaviours)
}

type buoy struct{}

func (buoy) Valid() bool                  { return true }
func (buoy) InSpace() bool                { return true }
func (buoy) Attach(string, model.Handler) {}
func (buoy) Detach(string)                {}
func (buoy) Message(string)               {}
func (buoy) String() string               { return "buoy" }

func TestLeavesRequireShip(t *testing.T) {
	lib := New(DefaultProfile(), nil, nil)
	a := agent.New(buoy{}, model.NewSimClock(0))
	c, _ := lib.Registry().Condition("inCombat")
	_, err := c(a)
	assert.ErrorIs(t, err, ErrNoShip)
}

func TestPrepare(t *testing.T) {
	p := newPilot(t)
	assert.True(t, p.agent.Flag(FlagSendsDistressCalls))
	_, ok := p.agent.Communication(CommsBeginningAttack)
	assert.True(t, ok)
	assert.Nil(t, p.agent.WaypointGenerator())

	prof := DefaultProfile()
	prof.Waypoints = "stationPatrol"
	lib := New(prof, nil, nil)
	require.NoError(t, lib.Prepare(p.agent))
	assert.NotNil(t, p.agent.WaypointGenerator())

	lib.Profile.Waypoints = "wander"
	assert.Error(t, lib.Prepare(p.agent))
}

func TestInCombat(t *testing.T) {
	p := newPilot(t)
	assert.False(t, p.condition(t, "inCombat"))

	far := p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 90000})
	p.ship.AddDefenseTarget(far)
	assert.False(t, p.condition(t, "inCombat"), "defense targets out of scanner range do not count")

	far.Position = model.Vector{X: 1000}
	assert.True(t, p.condition(t, "inCombat"))
}

func TestInCombatThroughGroup(t *testing.T) {
	p := newPilot(t)
	mate := p.spawn(2, "Wingman", model.ClassShip, model.Vector{})
	enemy := p.spawn(3, "Krait", model.ClassShip, model.Vector{X: 500})
	g := model.NewGroup("patrol")
	g.Add(p.ship)
	g.Add(mate)

	mate.Target = enemy
	mate.Perform(model.OrderAttack)
	assert.True(t, p.condition(t, "inCombat"))
}

func TestLosingCombat(t *testing.T) {
	t.Run("not fighting", func(t *testing.T) {
		p := newPilot(t)
		p.ship.Energy = 1
		assert.False(t, p.condition(t, "losingCombat"))
		assert.True(t, p.condition(t, "energyLow"))
	})
	t.Run("low energy in a fight", func(t *testing.T) {
		p := newPilot(t)
		p.ship.AddDefenseTarget(p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 100}))
		p.ship.Energy = 30
		assert.False(t, p.condition(t, "losingCombat"))
		p.ship.Energy = 20
		assert.True(t, p.condition(t, "losingCombat"))
	})
	t.Run("incoming missile", func(t *testing.T) {
		p := newPilot(t)
		m := p.spawn(2, "missile", model.ClassMissile, model.Vector{X: 100})
		m.Target = p.ship
		p.ship.AddDefenseTarget(m)
		assert.True(t, p.condition(t, "losingCombat"))
	})
	t.Run("cascade nearby", func(t *testing.T) {
		p := newPilot(t)
		p.agent.SetParameter(KeyCascadeDetected, model.Vector{X: 1000})
		assert.True(t, p.condition(t, "losingCombat"))

		p.agent.SetParameter(KeyCascadeDetected, model.Vector{X: 90000})
		assert.False(t, p.condition(t, "losingCombat"))
		assert.Nil(t, p.agent.Parameter(KeyCascadeDetected), "distant cascade is forgotten")
	})
	t.Run("full energy forgets last threat", func(t *testing.T) {
		p := newPilot(t)
		threat := p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 100})
		p.agent.SetParameter(KeyLastFleeing, threat)
		p.ship.AddDefenseTarget(threat)
		p.ship.Energy = 99
		assert.True(t, p.condition(t, "losingCombat"))

		p.ship.Energy = p.ship.MaxEnergy
		assert.False(t, p.condition(t, "losingCombat"))
		assert.Nil(t, p.agent.Parameter(KeyLastFleeing))
	})
	t.Run("destroyed last threat still counts when close", func(t *testing.T) {
		p := newPilot(t)
		wreck := p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 100})
		wreck.Destroy()
		p.agent.SetParameter(KeyLastFleeing, wreck)
		p.ship.AddDefenseTarget(p.spawn(3, "Mamba", model.ClassShip, model.Vector{X: 200}))
		p.ship.Energy = 99
		assert.True(t, p.condition(t, "losingCombat"))

		wreck.Position = model.Vector{X: 90000}
		assert.False(t, p.condition(t, "losingCombat"))
	})
}

func TestCheckScannerAndHostiles(t *testing.T) {
	p := newPilot(t)
	far := p.spawn(2, "Far", model.ClassShip, model.Vector{X: 50000})
	far.Bounty = 100
	near := p.spawn(3, "Near", model.ClassShip, model.Vector{X: 2000})
	nearest := p.spawn(4, "Nearest", model.ClassCargo, model.Vector{X: 1000})

	p.agent.SetParameter(agent.KeyScanResultSpecific, far)
	p.configure(t, "checkScanner")
	assert.Equal(t, []*model.Ship{nearest, near}, p.agent.Parameter(agent.KeyScanResults))
	assert.Nil(t, p.agent.Parameter(agent.KeyScanResultSpecific))

	assert.False(t, p.condition(t, "scannerContainsHostiles"))
	assert.False(t, p.condition(t, "scannerContainsFugitive"), "out of range")
	assert.True(t, p.condition(t, "scannerContainsSalvage"))
	assert.False(t, p.condition(t, "scannerContainsSalvageForMe"), "no scoops")

	near.Target = p.ship
	near.Perform(model.OrderAttack)
	assert.True(t, p.condition(t, "scannerContainsHostiles"))
	assert.Same(t, near, p.agent.Parameter(agent.KeyScanResultSpecific))

	p.configure(t, "acquireScannedTarget")
	assert.Same(t, near, p.ship.Target)
}

func TestGroupConditions(t *testing.T) {
	p := newPilot(t)
	assert.True(t, p.condition(t, "isGroupLeader"), "a lone ship leads itself")
	assert.False(t, p.condition(t, "hasGroup"))

	slow := p.spawn(2, "Slow", model.ClassShip, model.Vector{})
	jumper := p.spawn(3, "Jumper", model.ClassShip, model.Vector{})
	jumper.Hyperdrive = true
	g := model.NewGroup("convoy")
	g.Add(p.ship)
	g.Add(slow)
	g.Add(jumper)

	assert.True(t, p.condition(t, "hasGroup"))
	assert.False(t, p.condition(t, "isGroupLeader"))

	p.agent.SetParameter(KeyLeaderRole, "trader-leader")
	p.configure(t, "appointGroupLeader")
	assert.Same(t, jumper, g.Leader())
	assert.Equal(t, "trader-leader", jumper.PrimaryRole)

	jumper.Hyperdrive = false
	p.configure(t, "appointGroupLeader")
	assert.Same(t, jumper, g.Leader(), "an existing leader is kept")

	jumper.Position = model.Vector{X: 30000}
	assert.True(t, p.condition(t, "groupIsSeparated"))
}

func TestCargoDemands(t *testing.T) {
	p := newPilot(t)
	assert.True(t, p.condition(t, "cargoDemandsMet"), "not watching for cargo")

	p.agent.SetParameter(FlagWatchForCargo, true)
	mate := p.spawn(2, "Mate", model.ClassShip, model.Vector{})
	g := model.NewGroup("pirates")
	g.Add(p.ship)
	g.Add(mate)
	require.NoError(t, g.Appoint(p.ship))

	p.agent.SetParameter(KeyCargoDemand, 2)
	p.configure(t, "demandCargo")
	demanded, met := g.CargoDemand()
	assert.Equal(t, 2, demanded)
	assert.False(t, met)

	assert.False(t, p.condition(t, "cargoDemandsMet"), "nothing dumped yet")

	require.NoError(t, p.agent.InstallHandlerSet(HandlersStandard))
	for i := 0; i < 2; i++ {
		_, err := p.ship.Fire(EventCargoDumpedNearby)
		require.NoError(t, err)
	}
	assert.True(t, p.condition(t, "cargoDemandsMet"))
	_, met = g.CargoDemand()
	assert.True(t, met, "the leader records the demand as met")

	p.configure(t, "forgetCargoDemand")
	demanded, met = g.CargoDemand()
	assert.Zero(t, demanded)
	assert.False(t, met)
	assert.Nil(t, p.agent.Parameter(KeyCargoDropped))
}

func TestCargoDemandsMemberDoesNotRecord(t *testing.T) {
	p := newPilot(t)
	p.agent.SetParameter(FlagWatchForCargo, true)
	leader := p.spawn(2, "Boss", model.ClassShip, model.Vector{})
	g := model.NewGroup("pirates")
	g.Add(leader)
	g.Add(p.ship)
	require.NoError(t, g.Appoint(leader))
	require.NoError(t, g.DemandCargo(leader, 1))

	p.agent.SetParameter(KeyCargoDropped, 1)
	assert.True(t, p.condition(t, "cargoDemandsMet"))
	_, met := g.CargoDemand()
	assert.False(t, met)

	p.configure(t, "forgetCargoDemand")
	demanded, _ := g.CargoDemand()
	assert.Equal(t, 1, demanded, "members cannot clear the leader's demand")
}

func TestCargoDemandsMemberTallyResetsWithDemand(t *testing.T) {
	p := newPilot(t)
	p.agent.SetParameter(FlagWatchForCargo, true)
	require.NoError(t, p.agent.InstallHandlerSet(HandlersStandard))
	leader := p.spawn(2, "Boss", model.ClassShip, model.Vector{})
	g := model.NewGroup("pirates")
	g.Add(leader)
	g.Add(p.ship)
	require.NoError(t, g.Appoint(leader))

	dump := func(n int) {
		for range n {
			_, err := p.ship.Fire(EventCargoDumpedNearby)
			require.NoError(t, err)
		}
	}

	require.NoError(t, g.DemandCargo(leader, 3))
	dump(3)
	assert.True(t, p.condition(t, "cargoDemandsMet"))

	require.NoError(t, g.ForgetCargoDemand(leader))
	require.NoError(t, g.DemandCargo(leader, 2))
	assert.False(t, p.condition(t, "cargoDemandsMet"), "cargo from the previous demand does not count")
	_, met := g.CargoDemand()
	assert.False(t, met)

	dump(1)
	assert.False(t, p.condition(t, "cargoDemandsMet"))
	dump(1)
	assert.True(t, p.condition(t, "cargoDemandsMet"))
	seen, _ := p.agent.Number(KeyCargoDropped)
	assert.Equal(t, 2.0, seen)
}

func TestAcquireCombatTargetTakesFirstDefenseTarget(t *testing.T) {
	p := newPilot(t)
	distant := p.spawn(2, "Distant", model.ClassShip, model.Vector{X: 90000})
	nearby := p.spawn(3, "Close", model.ClassShip, model.Vector{X: 100})
	p.ship.AddDefenseTarget(distant)
	p.ship.AddDefenseTarget(nearby)

	p.configure(t, "acquireCombatTarget")
	assert.Same(t, distant, p.ship.Target)
}

func TestAcquireCombatTargetDropsAlliesAndCargo(t *testing.T) {
	p := newPilot(t)
	mate := p.spawn(2, "Mate", model.ClassShip, model.Vector{})
	g := model.NewGroup("wing")
	g.Add(p.ship)
	g.Add(mate)
	p.ship.Target = mate
	p.ship.AddDefenseTarget(mate)

	p.configure(t, "acquireCombatTarget")
	assert.Nil(t, p.ship.Target)
	assert.Empty(t, p.ship.DefenseTargets)

	enemy := p.spawn(3, "Krait", model.ClassShip, model.Vector{X: 3000})
	mate.Target = enemy
	mate.Perform(model.OrderAttack)
	p.configure(t, "acquireCombatTarget")
	assert.Same(t, enemy, p.ship.Target, "help a fighting group mate")

	p.ship.Target = p.spawn(4, "barrel", model.ClassCargo, model.Vector{})
	mate.Perform(model.OrderIdle)
	p.configure(t, "acquireCombatTarget")
	assert.Nil(t, p.ship.Target)
}

func TestFleeCombat(t *testing.T) {
	p := newPilot(t)
	first := p.spawn(2, "First", model.ClassShip, model.Vector{X: 80000})
	second := p.spawn(3, "Second", model.ClassShip, model.Vector{X: 100})
	p.ship.AddDefenseTarget(first)
	p.ship.AddDefenseTarget(second)

	p.run(t, "fleeCombat")
	assert.Equal(t, model.OrderFlee, p.ship.Order)
	assert.Same(t, first, p.ship.Target, "no aggressor in range falls back to the first defense target")
	assert.Same(t, first, p.agent.Parameter(KeyLastFleeing))

	p.ship.Aggressor = second
	p.run(t, "fleeCombat")
	assert.Same(t, second, p.ship.Target)
}

func TestFleeCascade(t *testing.T) {
	p := newPilot(t)
	cascade := model.Vector{Y: 5000}
	p.agent.SetParameter(KeyCascadeDetected, cascade)

	p.run(t, "fleeCombat")
	assert.Equal(t, model.OrderFlyToRange, p.ship.Order)
	assert.Equal(t, cascade, p.ship.Destination)
	assert.Equal(t, 30000.0, p.ship.DesiredRange)
	assert.Equal(t, []string{Communications[CommsQuiriumCascade]}, p.ship.Messages)

	p.run(t, "fleeCombat")
	assert.Len(t, p.ship.Messages, 1, "already heading for the cascade")
}

func TestDestroyCurrentTarget(t *testing.T) {
	p := newPilot(t)
	p.ship.Target = p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 100})
	p.agent.SetParameter(KeyWitchspaceEntry, 12.0)

	p.run(t, "destroyCurrentTarget")
	assert.Equal(t, model.OrderAttack, p.ship.Order)
	assert.Equal(t, []string{"Die, Krait!"}, p.ship.Messages)
	assert.Nil(t, p.agent.Parameter(KeyWitchspaceEntry))

	p.run(t, "destroyCurrentTarget")
	assert.Len(t, p.ship.Messages, 1, "no new announcement while already attacking")
}

func TestTerminalBehaviours(t *testing.T) {
	p := newPilot(t)
	p.agent.ScheduleIn(10)
	p.run(t, "landOnPlanet")
	_, armed := p.agent.WakeTime()
	assert.False(t, armed)
	assert.Equal(t, model.OrderLand, p.ship.Order)
	assert.Equal(t, 75.0, p.ship.DesiredSpeed)
	assert.Equal(t, []string{agent.EventAwoken}, p.agent.ActiveHandlers())

	p.agent.ScheduleIn(10)
	p.run(t, "selfDestruct")
	_, armed = p.agent.WakeTime()
	assert.False(t, armed)
	assert.False(t, p.ship.Valid())
}

func TestShipBeingAttacked(t *testing.T) {
	p := newPilot(t)
	require.NoError(t, p.agent.InstallHandlerSet(HandlersStandard))
	attacker := p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 100})
	attacker.Target = p.ship

	_, err := p.ship.Fire(EventShipBeingAttacked, attacker)
	require.NoError(t, err)
	assert.Equal(t, []*model.Ship{attacker}, p.ship.DefenseTargets)
	assert.Equal(t, []string{"Mayday! Cobra under attack!"}, p.ship.Messages)
	at, armed := p.agent.WakeTime()
	require.True(t, armed)
	assert.Equal(t, agent.SoonDelay, at)
}

func TestFriendlyFire(t *testing.T) {
	p := newPilot(t)
	require.NoError(t, p.agent.InstallHandlerSet(HandlersStandard))
	mate := p.spawn(2, "Mate", model.ClassShip, model.Vector{})
	g := model.NewGroup("wing")
	g.Add(p.ship)
	g.Add(mate)

	_, err := p.ship.Fire(EventShipBeingAttacked, mate)
	require.NoError(t, err)
	assert.Empty(t, p.ship.DefenseTargets)
	assert.Equal(t, []string{"Watch where you're shooting, Mate!"}, p.ship.Messages)
}

func TestExitedSpaceClearsTransient(t *testing.T) {
	p := newPilot(t)
	require.NoError(t, p.agent.InstallHandlerSet(HandlersStandard))
	p.agent.SetParameter(KeyWitchspaceEntry, 3.0)
	p.agent.SetParameter(KeyWaypoint, model.Vector{X: 1})

	_, err := p.ship.Fire(EventShipExitedSpace)
	require.NoError(t, err)
	assert.Nil(t, p.agent.Parameter(KeyWitchspaceEntry))
	assert.NotNil(t, p.agent.Parameter(KeyWaypoint))
}

func TestStationPatrol(t *testing.T) {
	p := newPilot(t)
	gen := p.lib.WaypointGenerators()["stationPatrol"]

	require.NoError(t, gen(p.agent))
	assert.Equal(t, model.Origin, p.agent.Parameter(KeyWaypoint))
	assert.Equal(t, 7500.0, p.agent.Parameter(KeyWaypointRange))

	station := p.spawn(2, "Coriolis", model.ClassStation, model.Vector{})
	station.Forward = model.Vector{Z: 1}
	g := model.NewGroup("station")
	g.Add(station)
	g.Add(p.ship)
	require.NoError(t, g.Appoint(station))

	require.NoError(t, gen(p.agent))
	assert.Equal(t, model.Vector{X: -25000}, p.agent.Parameter(KeyWaypoint))
	assert.Equal(t, 100.0, p.agent.Parameter(KeyWaypointRange))

	p.ship.Position = model.Vector{X: -25000, Z: 100}
	require.NoError(t, gen(p.agent))
	assert.Equal(t, model.Vector{Y: -25000}, p.agent.Parameter(KeyWaypoint))
}

func TestSpacelanePatrol(t *testing.T) {
	p := newPilot(t)
	gen := p.lib.WaypointGenerators()["spacelanePatrol"]
	p.ship.System = &model.System{
		Planet:       model.Vector{Z: 400000},
		PlanetRadius: 20000,
		Sun:          model.Vector{X: 300000, Z: 700000},
		SunRadius:    80000,
	}

	// far from every lane: always back to the planet
	p.ship.Position = model.Vector{X: -500000, Y: 500000, Z: -900000}
	require.NoError(t, gen(p.agent))
	assert.Equal(t, p.ship.System.Planet, p.agent.Parameter(KeyWaypoint))
	assert.Equal(t, 40000.0, p.agent.Parameter(KeyWaypointRange))

	// near the planet the next leg is the witchpoint or the sun
	p.ship.Position = model.Vector{Z: 380000}
	for i := 0; i < 20; i++ {
		require.NoError(t, gen(p.agent))
		assert.NotEqual(t, p.ship.System.Planet, p.agent.Parameter(KeyWaypoint))
	}
}

func TestApproachDestinationWaypoints(t *testing.T) {
	p := newPilot(t)
	p.agent.SetWaypointGenerator(func(a *agent.Agent) error {
		setWaypoint(a, model.Vector{X: 10000}, 500)
		return nil
	})
	p.configure(t, "setWaypoint")
	assert.Equal(t, model.Vector{X: 10000}, p.ship.Destination)
	assert.Equal(t, 500.0, p.ship.DesiredRange)
	assert.InDelta(t, 240.0, p.ship.DesiredSpeed, 1e-9)

	p.run(t, "approachDestination")
	assert.Equal(t, model.OrderFlyToRange, p.ship.Order)
	assert.Contains(t, p.agent.ActiveHandlers(), EventShipAchievedDesiredRange)

	_, err := p.ship.Fire(EventShipAchievedDesiredRange)
	require.NoError(t, err)
	assert.Nil(t, p.agent.Parameter(KeyWaypoint))
	assert.Equal(t, []string{"Waypoint reached."}, p.ship.Messages)
}

func TestApproachDestinationWaypointStack(t *testing.T) {
	p := newPilot(t)
	p.agent.SetParameter(KeyWaypoints, []model.Vector{{X: 1}, {X: 2}})
	p.run(t, "approachDestination")
	assert.Equal(t, model.Vector{X: 2}, p.ship.Destination)
	assert.Equal(t, 1000.0, p.ship.DesiredRange)

	_, err := p.ship.Fire(EventShipAchievedDesiredRange)
	require.NoError(t, err)
	assert.Equal(t, []model.Vector{{X: 1}}, p.agent.Parameter(KeyWaypoints))
	_, err = p.ship.Fire(EventShipAchievedDesiredRange)
	require.NoError(t, err)
	assert.Nil(t, p.agent.Parameter(KeyWaypoints))
}

func TestCruiseSpeedFollowsSlowMates(t *testing.T) {
	p := newPilot(t)
	assert.InDelta(t, 240.0, p.lib.cruiseSpeed(p.ship), 1e-9)

	slow := p.spawn(2, "Slow", model.ClassShip, model.Vector{})
	slow.MaxSpeed = 200
	crawler := p.spawn(3, "Crawler", model.ClassShip, model.Vector{})
	crawler.MaxSpeed = 50
	g := model.NewGroup("convoy")
	g.Add(p.ship)
	g.Add(slow)
	g.Add(crawler)
	assert.Equal(t, 200.0, p.lib.cruiseSpeed(p.ship), "ships far slower than us are left behind")
}

// A trader tree end to end: patrol while safe, flee when attacked and losing.
func TestTraderTree(t *testing.T) {
	p := newPilot(t)
	reg := p.lib.Registry()
	cond := func(n string) priority.Condition[*agent.Agent] {
		c, _ := reg.Condition(n)
		return c
	}
	act := func(n string) priority.Action[*agent.Agent] {
		c, _ := reg.Action(n)
		return c
	}
	beh := func(n string) *priority.Behaviour[*agent.Agent] {
		b, _ := reg.Behaviour(n)
		return b
	}

	p.agent.SetPriorityTree([]priority.Entry[*agent.Agent]{
		{Label: "flee", Condition: cond("losingCombat"), Behaviour: beh("fleeCombat"), Reconsider: 5},
		{Label: "fight", Condition: cond("inCombat"), Configuration: act("acquireCombatTarget"), Behaviour: beh("destroyCurrentTarget"), Reconsider: 5},
		{Label: "wait", Behaviour: beh("idle"), Reconsider: 10},
	})

	require.NoError(t, p.tick(1))
	assert.Equal(t, "idle", p.agent.Behaviour())

	attacker := p.spawn(2, "Krait", model.ClassShip, model.Vector{X: 1000})
	attacker.Target = p.ship
	_, err := p.ship.Fire(EventShipBeingAttacked, attacker)
	require.NoError(t, err)
	require.NoError(t, p.tick(1))
	assert.Equal(t, "destroyCurrentTarget", p.agent.Behaviour())
	assert.Same(t, attacker, p.ship.Target)

	p.ship.Energy = 10
	p.ship.Aggressor = attacker
	require.NoError(t, p.tick(5))
	assert.Equal(t, "fleeCombat", p.agent.Behaviour())
	assert.Equal(t, model.OrderFlee, p.ship.Order)
}
