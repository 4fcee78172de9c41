// Package types defines the shared data structures for the BattleCore engine.
// It holds only type definitions, with no logic and no methods.
package types

// Team identifies one side of a battle. The numeric order is the
// tie-break order used by the turn builder.
type Team int

const (
	TeamPlayer Team = iota
	TeamOpponent
)

// ActivePokemonIndex addresses a combatant currently on the field.
type ActivePokemonIndex struct {
	Team   Team
	Active int
}

// MoveTarget is the targeting rule declared on a move or item definition.
type MoveTarget string

const (
	MoveTargetUser       MoveTarget = "user"
	MoveTargetOpponent   MoveTarget = "opponent"
	MoveTargetTeam       MoveTarget = "team"
	MoveTargetOpponents  MoveTarget = "opponents"
	MoveTargetAllButUser MoveTarget = "all_but_user"
)

// TargetKind tags a MoveTargetInstance.
type TargetKind int

const (
	TargetUser TargetKind = iota
	TargetOpponent
	TargetTeam
	TargetOpponents
	TargetAllButUser
)

// MoveTargetInstance is a concrete target selection made during Selecting.
// Index is meaningful for TargetOpponent and TargetTeam only. Revive items
// carry a roster index instead, since fainted Pokémon are never active.
type MoveTargetInstance struct {
	Kind  TargetKind
	Index int
}

// BattleMoveKind tags a BattleMove.
type BattleMoveKind int

const (
	BattleMoveMove BattleMoveKind = iota
	BattleMoveItem
	BattleMoveSwitch
)

// BattleMove is one combatant's choice for the turn.
type BattleMove struct {
	Kind   BattleMoveKind
	Move   int    // move slot on the Pokémon (BattleMoveMove)
	Item   string // item ID (BattleMoveItem)
	Switch int    // party index to bring in (BattleMoveSwitch)
	Target MoveTargetInstance
}

// ActionKind tags a BattleAction.
type ActionKind int

const (
	ActionPokemon ActionKind = iota
	ActionFaint
	ActionGainExp
	ActionLevelUp
	ActionCatch
)

// BattleAction is a scheduled effect. Fields are populated per Kind.
type BattleAction struct {
	Kind       ActionKind
	Move       BattleMove          // ActionPokemon
	Assailant  *ActivePokemonIndex // ActionFaint, nil if no attacker
	Level      int                 // ActionGainExp (level before), ActionLevelUp (new level)
	Experience int                 // ActionGainExp
	NewMoves   []string            // ActionLevelUp
	Target     ActivePokemonIndex  // ActionCatch
}

// BattleActionInstance binds an action to the combatant it belongs to.
type BattleActionInstance struct {
	Pokemon ActivePokemonIndex
	Action  BattleAction
}

// ResultKind tags a MoveResult.
type ResultKind int

const (
	ResultDamage ResultKind = iota
	ResultStatus
	ResultDrain
	ResultStatStage
	ResultTodo
	ResultMiss
)

// MoveResult is the per-target outcome of a move evaluated by a move engine.
type MoveResult struct {
	Kind          ResultKind
	Amount        int     // damage dealt (Damage, Drain)
	Heal          int     // HP restored to the user (Drain)
	Effectiveness float64 // type multiplier (Damage, Drain)
	Critical      bool
	Status        string // Status
	Stat          string // StatStage
	Stages        int    // StatStage
}

// BattleType classifies the battle for rewards, experience and capture rules.
type BattleType int

const (
	BattleWild BattleType = iota
	BattleTrainer
	BattleGymLeader
)

// BattleData is per-battle metadata.
type BattleData struct {
	Type    BattleType
	Trainer *TrainerDef
	Winner  *Team
	Caught  bool
}

// Stats is a full stat block.
type Stats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
}

// LearnableMove is one learnset entry.
type LearnableMove struct {
	Level int
	Move  string
}

// SpeciesDef is a Pokémon species definition.
type SpeciesDef struct {
	ID         string
	Name       string
	Types      []string
	Base       Stats
	BaseExp    int
	GrowthRate string // "fast", "medium_fast", "medium_slow", "slow"
	CatchRate  int
	Learnset   []LearnableMove
}

// MoveDef is a move definition.
type MoveDef struct {
	ID         string
	Name       string
	Category   string // "physical", "special", "status"
	Type       string
	Power      int
	Accuracy   int // 0 = never misses
	PP         int
	Priority   int
	Target     MoveTarget
	Effect     string // "damage", "drain", "status", "stat_stage", or anything else = unimplemented
	Drain      float64
	Status     string
	Stat       string
	Stages     int
	CritChance float64
}

// ItemDef is an item definition.
type ItemDef struct {
	ID          string
	Name        string
	Description string
	Usage       string // "pokeball", "heal", "revive", "cure", "none"
	Amount      int
	Target      MoveTarget
}

// TrainerDef is an opposing trainer.
type TrainerDef struct {
	ID    string
	Name  string
	Worth int
	Badge string
}

// MoveInstance is a move known by a Pokémon.
type MoveInstance struct {
	Move string `json:"move"`
	PP   int    `json:"pp"`
}

// Pokemon is an owned Pokémon instance.
type Pokemon struct {
	Species      string         `json:"species"`
	Nickname     string         `json:"nickname,omitempty"`
	Level        int            `json:"level"`
	Experience   int            `json:"experience"`
	HP           int            `json:"hp"`
	Stats        Stats          `json:"stats"`
	Moves        []MoveInstance `json:"moves"`
	Status       string         `json:"status,omitempty"`
	Stages       map[string]int `json:"stages,omitempty"`
	PendingMoves []string       `json:"pending_moves,omitempty"`
}

// PartyMember is one roster entry of a battle scenario.
type PartyMember struct {
	Species string
	Level   int
	Moves   []string // empty = latest learnable moves
}

// BattleDef is a battle scenario loaded from content.
type BattleDef struct {
	ID       string
	Trainer  string // empty for wild battles
	Player   []PartyMember
	Opponent []PartyMember
	Bag      map[string]int
}
