package features

// ru matches a Cyrillic stem at the start of a word. Go's \b only knows
// ASCII letters, so Cyrillic boundaries are spelled out.
func ru(stem string) Matcher {
	return Pattern(`(?:^|[^\p{L}])` + stem)
}

func feature(name string, matchers ...Matcher) Feature {
	return Feature{Name: name, Matchers: matchers}
}

func withTerms(name string, terms []string, extra ...Matcher) Feature {
	return Feature{Name: name, Matchers: append(Terms(terms...), extra...)}
}

// goIdioms are English phrases where "go" is not the language.
var goIdioms = []string{
	"go live", "go-live", "go to market", "go-to-market", "ready to go",
	"good to go", "on the go", "let's go", "go ahead", "go beyond",
}

// RoleFamily is the role_* flags. Listed in column order, which is not the
// primary-role precedence.
func RoleFamily() Family {
	return Family{Name: FamilyRole, Features: []Feature{
		withTerms("role_backend", []string{"backend", "back-end", "back end", "бекенд", "бэкенд", "бэк-энд"}),
		withTerms("role_frontend", []string{"frontend", "front-end", "front end", "фронтенд", "фронт-энд"}),
		withTerms("role_fullstack", []string{"fullstack", "full-stack", "full stack", "фулстек", "фуллстек", "фул-стек"}),
		withTerms("role_mobile", []string{"мобильн", "react native"},
			Pattern(`\bandroid\b`), Pattern(`\bios\b`), Pattern(`\bmobile\b`), Pattern(`\bswift\b`), Pattern(`\bflutter\b`)),
		withTerms("role_data", []string{"data engineer", "инженер данных", "data platform", "big data", "data warehouse"},
			Pattern(`\betl\b`), Pattern(`\bdwh\b`)),
		withTerms("role_ml", []string{"machine learning", "data scientist", "data science", "нейросет", "computer vision", "deep learning"},
			Pattern(`\bml\b`), Pattern(`\bnlp\b`), Pattern(`\bllm\b`), Pattern(`машинн\S*\s+обучени`)),
		withTerms("role_devops", []string{"devops", "site reliability", "platform engineer", "devsecops"},
			Pattern(`\bsre\b`)),
		withTerms("role_qa", []string{"тестир", "quality assurance"},
			Pattern(`\bqa\b`), Pattern(`\bsdet\b`)),
		withTerms("role_manager", []string{"project manager", "delivery manager", "scrum", "agile coach", "руководитель проект", "менеджер проект"},
			Pattern(`\bpm\b`)),
		withTerms("role_product", []string{"product manager", "product owner", "продакт"}),
		withTerms("role_analyst", []string{"аналитик", "analyst"},
			Pattern(`\bbi\b`)),
	}}
}

// StackFamily is the has_* technology flags.
func StackFamily() Family {
	return Family{Name: FamilyStack, Features: []Feature{
		feature("has_python", Term("python")),
		feature("has_java", Pattern(`\bjava\b`)),
		feature("has_kotlin", Term("kotlin")),
		feature("has_csharp", Term("c#"), Pattern(`\.net\b`), Term("dotnet")),
		feature("has_cpp", Term("c++"), Pattern(`\bcpp\b`)),
		feature("has_go", Except(Pattern(`\bgo\b`), goIdioms...), Term("golang")),
		feature("has_php", Pattern(`\bphp\b`)),
		feature("has_javascript", Term("javascript"), Pattern(`\bjs\b`)),
		feature("has_typescript", Term("typescript"), Pattern(`\bts\b`)),
		feature("has_scala", Pattern(`\bscala\b`)),
		feature("has_rust", Pattern(`\brust\b`)),
		feature("has_ruby", Pattern(`\bruby\b`), Pattern(`\brails\b`)),
		feature("has_django", Term("django")),
		feature("has_flask", Pattern(`\bflask\b`)),
		feature("has_fastapi", Term("fastapi")),
		feature("has_dotnet", Pattern(`\.net\b`), Term("dotnet")),
		feature("has_spring", Pattern(`\bspring\b`)),
		feature("has_nodejs", Term("node.js"), Term("nodejs"), Term("node js")),
		feature("has_express", Pattern(`\bexpress(?:\.?js)?\b`)),
		feature("has_nestjs", Term("nestjs"), Term("nest.js")),
		feature("has_react", Pattern(`\breact\b`), Term("reactjs"), Term("react.js")),
		feature("has_vue", Pattern(`\bvue(?:\.?js)?\b`)),
		feature("has_angular", Term("angular")),
		feature("has_nextjs", Term("next.js"), Term("nextjs")),
		feature("has_nuxt", Term("nuxt")),
		feature("has_svelte", Term("svelte")),
		feature("has_pandas", Term("pandas")),
		feature("has_numpy", Term("numpy")),
		feature("has_sklearn", Term("sklearn"), Term("scikit")),
		feature("has_pytorch", Term("pytorch"), Pattern(`\btorch\b`)),
		feature("has_tensorflow", Term("tensorflow")),
		feature("has_airflow", Term("airflow")),
		feature("has_spark", Pattern(`\bspark\b`), Term("pyspark")),
		feature("has_kafka", Term("kafka")),
		feature("has_docker", Term("docker")),
		feature("has_kubernetes", Term("kubernetes"), Pattern(`\bk8s\b`)),
		feature("has_terraform", Term("terraform")),
		feature("has_ansible", Term("ansible")),
		feature("has_jenkins", Term("jenkins")),
		feature("has_gitlab_ci", Term("gitlab ci"), Term("gitlab-ci")),
		feature("has_cicd", Term("ci/cd"), Term("ci cd"), Term("continuous integration"), Term("continuous delivery")),
	}}
}

// DataSkillFamily is the skill_* analytics flags.
func DataSkillFamily() Family {
	return Family{Name: FamilyDataSkill, Features: []Feature{
		withTerms("skill_sql", []string{"postgres", "mysql", "mariadb", "mssql", "ms sql", "sql server", "oracle", "clickhouse", "bigquery", "greenplum"},
			Pattern(`\bsql\b`), Pattern(`\bt-sql\b`), Pattern(`\bpl/sql\b`)),
		withTerms("skill_excel", []string{"excel"}),
		withTerms("skill_powerbi", []string{"powerbi", "power bi"}),
		withTerms("skill_tableau", []string{"tableau"}),
		withTerms("skill_clickhouse", []string{"clickhouse"}),
		withTerms("skill_bigquery", []string{"bigquery"}),
		withTerms("skill_r", []string{"rstudio", "язык r"},
			Pattern(`(?:^|[\s,;(/])r(?:[\s,;.)/]|$)`)),
		withTerms("skill_airflow", []string{"airflow"}),
		withTerms("skill_ab_testing", []string{"a/b", "ab test", "ab-тест", "a/b-тест", "а/б"}),
		withTerms("skill_product_metrics", []string{"продуктовые метрики", "продуктовых метрик", "метрик", "конверси", "воронк", "retention", "unit-эконом", "юнит-эконом"},
			Pattern(`\bltv\b`), Pattern(`\bdau\b`), Pattern(`\bmau\b`)),
	}}
}

// BenefitFamily is the benefit_* flags.
func BenefitFamily() Family {
	return Family{Name: FamilyBenefit, Features: []Feature{
		withTerms("benefit_dms", []string{"дмс", "медицинск", "медстрах"}),
		withTerms("benefit_insurance", []string{"страховк", "страхование"}),
		withTerms("benefit_sick_leave_paid", []string{"оплачиваемые больничные", "оплачиваемый больничный", "оплата больничн"}),
		withTerms("benefit_vacation_paid", []string{"оплачиваемый отпуск", "оплачиваемые отпуска"}),
		withTerms("benefit_relocation", []string{"релокац", "переезд", "relocation"}),
		withTerms("benefit_sport", []string{"спорт", "фитнес", "бассейн", "gym"}),
		withTerms("benefit_education", []string{"обучени", "курсы", "конференц", "митап"}),
		withTerms("benefit_remote_compensation", []string{"оплата интернета", "коворкинг"},
			Pattern(`компенсац\S*\s+(?:\S+\s+)?(?:интернет|связ|электр|домашн|оборудован)`)),
		withTerms("benefit_stock", []string{"опцион", "акции компании", "esop"},
			Pattern(`\brsu\b`)),
	}}
}

// SoftFamily is the soft_* flags.
func SoftFamily() Family {
	return Family{Name: FamilySoft, Features: []Feature{
		withTerms("soft_communication", []string{"коммуникаб", "коммуникац", "общени", "communication"}),
		withTerms("soft_teamwork", []string{"команд", "teamwork", "team player"}),
		withTerms("soft_leadership", []string{"лидерск", "leadership", "руководств"}),
		withTerms("soft_result_oriented", []string{"ориентация на результат", "ориентированность на результат", "result oriented", "results-oriented"}),
		withTerms("soft_structured_thinking", []string{"структурн", "структурирован"}),
		withTerms("soft_critical_thinking", []string{"критическ", "critical thinking"}),
	}}
}

// DomainFamily is the domain_* flags.
func DomainFamily() Family {
	return Family{Name: FamilyDomain, Features: []Feature{
		withTerms("domain_finance", []string{"банк", "финтех", "fintech", "финансов", "страхов"}),
		withTerms("domain_ecommerce", []string{"ecommerce", "e-commerce", "маркетплейс", "marketplace", "интернет-магазин"}),
		withTerms("domain_telecom", []string{"телеком", "telecom", "оператор связи", "мобильный оператор"}),
		withTerms("domain_state", []string{"госкомпан", "государствен", "госсектор", "госуслуг"}),
		withTerms("domain_retail", []string{"ритейл", "ретейл", "retail", "магазин", "торговая сеть"}),
		withTerms("domain_it_product", []string{"saas", "it-продукт", "digital product", "продуктовая компания", "собственный продукт", "свой продукт"}),
	}}
}

// EmployerFamily is the employer_has_* flags read from the company page.
func EmployerFamily() Family {
	return Family{Name: FamilyEmployer, Features: []Feature{
		withTerms("employer_has_remote", []string{"удаленн", "удаленк", "remote"}),
		withTerms("employer_has_flexible_schedule", []string{"гибк", "flexible"}),
		withTerms("employer_has_med_insurance", []string{"дмс", "медицинск", "insurance"}),
		withTerms("employer_has_education", []string{"обучени", "education", "курсы"}),
	}}
}

// DefaultRegistry returns the built-in flag families.
func DefaultRegistry() *Registry {
	return NewRegistry(
		RoleFamily(),
		StackFamily(),
		DataSkillFamily(),
		BenefitFamily(),
		SoftFamily(),
		DomainFamily(),
		EmployerFamily(),
	)
}

// CoreDataSkills are counted by core_data_skills_count; each inner group counts once.
var CoreDataSkills = [][]string{
	{"skill_sql"},
	{"skill_excel"},
	{"skill_powerbi", "skill_tableau"},
	{"has_python", "skill_r"},
}

// MLStack are counted by ml_stack_count; each inner group counts once.
var MLStack = [][]string{
	{"has_sklearn"},
	{"has_pytorch"},
	{"has_tensorflow"},
	{"has_airflow", "skill_airflow"},
	{"has_spark"},
	{"has_kafka"},
}

// countGroups counts groups with at least one true flag.
func countGroups(flags map[string]bool, groups [][]string) int {
	n := 0
	for _, g := range groups {
		if CountTrue(flags, g...) > 0 {
			n++
		}
	}
	return n
}
