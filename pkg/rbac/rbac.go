package rbac

type Rule struct {
	APIGroups []string
	Resources []string
	Verbs     []string
}

type Role struct {
	Name  string
	Rules []Rule
}

const (
	RoleNameUser  = "user"
	RoleNameAdmin = "admin"
)

var roles = map[string]Role{
	RoleNameUser: newRole(RoleNameUser, func(r Role) Role {
		return r.
			addRule([]string{QuizfarmGroup}, []string{VerbGet, VerbCreate}, []string{ResourcePluralQuiz}).
			addRule([]string{QuizfarmGroup}, []string{VerbGet, VerbList}, []string{ResourcePluralResult})
	}),
	RoleNameAdmin: newRole(RoleNameAdmin, func(r Role) Role {
		return r.
			addRule([]string{All}, []string{All}, []string{All})
	}),
}

// RoleFor returns the built-in role with the given name. Unknown names get no rules.
func RoleFor(name string) Role {
	if r, ok := roles[name]; ok {
		return r
	}
	return Role{Name: name}
}

// AccessSetFor derives the access set of subject holding the named role.
func AccessSetFor(subject string, roleName string) *AccessSet {
	return NewAccessSet(subject, RoleFor(roleName).Rules...)
}

func (role Role) addRule(apiGroups []string, verbs []string, resources []string) Role {
	role.Rules = append(role.Rules, Rule{
		Verbs:     verbs,
		APIGroups: apiGroups,
		Resources: resources,
	})
	return role
}

func newRole(name string, customize func(Role) Role) Role {
	return customize(Role{Name: name})
}
