package contracts

import "time"

// Role identifies one analytical perspective in the pipeline.
type Role string

const (
	RoleBusiness  Role = "business"
	RoleValue     Role = "value"
	RoleGrowth    Role = "growth"
	RoleRisk      Role = "risk"
	RoleSynthesis Role = "synthesis"
)

// AgentReport is the opaque free-text output of one reasoning-agent
// invocation plus the prompt/context that produced it. The text is never
// trusted; everything numeric goes through the extractor.
type AgentReport struct {
	Role        Role      `json:"role"`
	Prompt      string    `json:"prompt"`
	Context     string    `json:"context"`
	Text        string    `json:"text"`
	Truncated   bool      `json:"truncated"`
	Attempts    int       `json:"attempts"`
	GeneratedAt time.Time `json:"generated_at"`
}
