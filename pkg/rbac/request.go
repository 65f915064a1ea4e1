package rbac

type Request struct {
	operator    string
	permissions []Permission
}

func RbacRequest() *Request {
	return &Request{
		permissions: []Permission{},
	}
}

func (r *Request) GetOperator() string {
	if r.operator == "" {
		return OperatorAND
	}

	return r.operator
}

func (r *Request) GetPermissions() []Permission {
	return r.permissions
}

func (r *Request) And() *Request {
	r.operator = OperatorAND
	return r
}

func (r *Request) Or() *Request {
	r.operator = OperatorOR
	return r
}

func (r *Request) QuizfarmPermission(resource string, verb string) *Request {
	r.permissions = append(r.permissions, QuizfarmPermission(resource, verb))
	return r
}

type Permission struct {
	APIGroup string
	Resource string
	Verb     string
}

func (p Permission) key() string {
	return "/" + p.APIGroup + "/" + p.Resource + "/" + p.Verb
}

func (p Permission) String() string {
	return p.key()
}

func QuizfarmPermission(resource string, verb string) Permission {
	return Permission{APIGroup: QuizfarmGroup, Resource: resource, Verb: verb}
}
