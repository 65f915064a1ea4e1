package rbac

// operators
const (
	OperatorAND = "AND"
	OperatorOR  = "OR"
)

// verbs
const (
	VerbList   = "list"
	VerbGet    = "get"
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
)

// group(s)
const (
	QuizfarmGroup = "quizfarm.io"
)

// resource plurals
const (
	ResourcePluralQuestion = "questions"
	ResourcePluralQuiz     = "quizzes"
	ResourcePluralResult   = "results"
	ResourcePluralUser     = "users"
	ResourcePluralRole     = "roles"
)

const All = "*"
