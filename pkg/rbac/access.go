package rbac

// An AccessSet is keyed by /apigroup/resource/verb. A lookup checks the
// requested value and the * glob at each level, so at most eight keys
// are checked per permission.
type AccessSet struct {
	Subject string `json:"subject"`

	Access map[string]bool `json:"access"`
}

func NewAccessSet(subject string, rules ...Rule) *AccessSet {
	as := &AccessSet{
		Subject: subject,
		Access:  map[string]bool{},
	}
	for _, rule := range rules {
		as.add(rule)
	}
	return as
}

func (as *AccessSet) add(rule Rule) {
	for _, apiGroup := range rule.APIGroups {
		for _, resource := range rule.Resources {
			for _, verb := range rule.Verbs {
				as.Access[Permission{APIGroup: apiGroup, Resource: resource, Verb: verb}.key()] = true
			}
		}
	}
}

func (as *AccessSet) Grants(p Permission) bool {
	for _, a := range []string{p.APIGroup, All} {
		for _, r := range []string{p.Resource, All} {
			for _, v := range []string{p.Verb, All} {
				if as.Access[Permission{APIGroup: a, Resource: r, Verb: v}.key()] {
					return true
				}
			}
		}
	}

	return false
}

// GrantsRequest evaluates every permission of req with its operator.
// An empty request is granted.
func (as *AccessSet) GrantsRequest(req *Request) bool {
	perms := req.GetPermissions()
	if len(perms) == 0 {
		return true
	}

	if req.GetOperator() == OperatorOR {
		for _, p := range perms {
			if as.Grants(p) {
				return true
			}
		}
		return false
	}

	for _, p := range perms {
		if !as.Grants(p) {
			return false
		}
	}
	return true
}
