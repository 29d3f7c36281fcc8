package domain

// Role is the coarse job function of a portal user.
type Role string

const (
	RoleAccounting Role = "ACCOUNTING"
	RoleOperations Role = "OPERATIONS"
)

// Capability names a privileged action a role may perform. Gating by
// capability keeps the authorization decision explicit instead of re-deriving
// it from UI context strings.
type Capability string

const (
	CapApprove     Capability = "voucher:approve"
	CapAutoApprove Capability = "voucher:auto_approve"
	CapPost        Capability = "voucher:post"
)

var roleCapabilities = map[Role][]Capability{
	RoleAccounting: {CapApprove, CapAutoApprove, CapPost},
	RoleOperations: {},
}

// Identity is the already-resolved caller identity. The engine never
// authenticates credentials; it consumes what the identity provider resolved.
type Identity struct {
	UserID      string `json:"userID"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// Can reports whether this identity holds the given capability.
func (i Identity) Can(c Capability) bool {
	for _, held := range roleCapabilities[i.Role] {
		if held == c {
			return true
		}
	}
	return false
}
