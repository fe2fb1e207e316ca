package library

import "github.com/nstehr/helm/agent"

// Parameter keys used by the stock leaves.
const (
	KeyCascadeDetected = agent.KeyPrefix + "cascadeDetected"
	KeyLastFleeing     = agent.KeyPrefix + "lastFleeing"
	KeyWaypoint        = agent.KeyPrefix + "waypoint"
	KeyWaypointRange   = agent.KeyPrefix + "waypointRange"
	KeyWaypoints       = agent.KeyPrefix + "waypoints"
	KeyLeaderRole      = agent.KeyPrefix + "leaderRole"
	KeyCargoDropped    = agent.KeyPrefix + "cargoDropped"
	KeyCargoDemand     = agent.KeyPrefix + "cargoDemand"
	KeyCargoDemandMet  = agent.KeyPrefix + "cargoDemandMet"
	KeyCargoEpoch      = agent.KeyPrefix + "cargoEpoch"

	// Cleared when the ship leaves normal space.
	KeyWitchspaceEntry = agent.TransientPrefix + "witchspaceEntry"

	FlagSendsDistressCalls = agent.KeyPrefix + "flag_sendsDistressCalls"
	FlagWatchForCargo      = agent.KeyPrefix + "flag_watchForCargo"
	FlagPatrolStation      = agent.KeyPrefix + "flag_patrolStation"
)

// Communication keys.
const (
	CommsBeginningAttack = agent.KeyPrefix + "beginningAttack"
	CommsDistress        = agent.KeyPrefix + "distress"
	CommsFriendlyFire    = agent.KeyPrefix + "friendlyFire"
	CommsLandingOnPlanet = agent.KeyPrefix + "landingOnPlanet"
	CommsQuiriumCascade  = agent.KeyPrefix + "quiriumCascade"
	CommsWaypointReached = agent.KeyPrefix + "waypointReached"
	CommsPatrolReportIn  = agent.KeyPrefix + "patrolReportIn"
)

// Event names delivered by the dispatcher.
const (
	EventShipBeingAttacked        = "shipBeingAttacked"
	EventShipAttackedWithMissile  = "shipAttackedWithMissile"
	EventShipTargetDestroyed      = "shipTargetDestroyed"
	EventShipAchievedDesiredRange = "shipAchievedDesiredRange"
	EventShipExitedSpace          = "shipExitedSpace"
	EventShipEnteredSpace         = "shipEnteredSpace"
	EventCascadeWeaponDetected    = "cascadeWeaponDetected"
	EventCargoDumpedNearby        = "cargoDumpedNearby"
)
