package normalize

// Field names are compared after lowercasing and dropping every character
// that is not a letter or a digit, so "start_date", "startDate" and
// "Start-Date" are the same key. Order matters: the first present alias wins.
var aliases = map[string][]string{
	// sections
	"skills":         {"skillSet", "skills", "keySkills", "skill", "technologies", "competencies", "techStack"},
	"experience":     {"experience", "workExperience", "work", "employment", "workHistory", "jobs", "positions", "experiences", "projects"},
	"education":      {"education", "educations", "studies", "schools", "academic", "academics"},
	"languages":      {"languages", "language", "spokenLanguages", "languageSkills"},
	"certifications": {"certifications", "certificates", "certificate", "certification", "licenses", "licences"},
	"rawText":        {"rawText", "text", "fullText", "plainText", "sourceText", "content", "cvText", "resumeText", "extractedText"},
	"meta":           {"meta", "metadata", "_meta"},

	// candidate scopes, searched in order before the root
	"candidateScope": {"candidate", "identity", "personal", "personalInfo", "personalDetails", "basics", "profile", "header"},
	"contactScope":   {"contacts", "contact", "contactInfo", "contactDetails"},

	// candidate
	"name":      {"name", "fullName", "candidateName", "displayName"},
	"firstName": {"firstName", "givenName", "first"},
	"midName":   {"middleName"},
	"lastName":  {"lastName", "surname", "familyName", "last"},
	"title":     {"title", "headline", "label", "jobTitle", "currentTitle", "desiredPosition", "position", "role"},
	"summary":   {"summary", "about", "aboutMe", "objective", "bio", "profileSummary", "professionalSummary"},
	"location":  {"location", "address", "city", "area", "residence"},
	"email":     {"email", "mail", "emailAddress", "emails"},
	"phone":     {"phone", "phoneNumber", "mobile", "telephone", "tel", "phones"},
	"linkedin":  {"linkedin", "linkedinUrl", "linkedinProfile"},
	"github":    {"github", "githubUrl"},
	"website":   {"website", "url", "homepage", "portfolio", "web", "blog"},
	"profiles":  {"profiles", "social", "links", "site", "sites"},

	// experience items
	"employer":      {"employer", "company", "companyName", "organization", "organisation", "client", "customer", "name"},
	"role":          {"role", "title", "position", "jobTitle", "designation"},
	"start":         {"start", "from", "startDate", "dateFrom", "since", "begin", "started"},
	"end":           {"end", "to", "endDate", "dateTo", "until", "till", "finished"},
	"dates":         {"dates", "period", "duration", "dateRange"},
	"itemLocation":  {"location", "city", "place", "area", "address"},
	"bullets":       {"bullets", "highlights", "achievements", "responsibilities", "tasks", "duties", "items", "accomplishments"},
	"description":   {"description", "summary", "details", "text"},
	"projectName":   {"projectName", "project"},
	"eduLocation":   {"location", "city", "place", "address"},
	"eduBullets":    {"bullets", "highlights", "achievements", "honors", "honours", "notes", "awards"},
	"school":        {"school", "institution", "university", "college", "institute", "name"},
	"degree":        {"degree", "qualification", "studyType", "diploma", "level"},
	"fieldOfStudy":  {"fieldOfStudy", "field", "fieldsOfStudy", "area", "major", "specialization", "specialty", "result"},
	"eqfLevel":      {"eqfLevel", "eqf", "levelInEqf"},
	"eduEnd":        {"end", "to", "endDate", "dateTo", "until", "year", "graduationYear", "graduated"},
	"languageName":  {"name", "language", "lang", "title"},
	"languageLevel": {"level", "proficiency", "fluency", "cefr"},
	"certName":      {"name", "title", "certification", "certificate"},
	"certIssuer":    {"issuer", "authority", "issuedBy", "organization", "vendor", "provider"},
	"certDate":      {"date", "issued", "issueDate", "achievedAt", "year", "obtained"},
	"skillKeywords": {"keywords", "items", "tools"},
	"skillName":     {"name", "skill", "title", "keyword"},
	"contactType":   {"type", "kind", "network", "service"},
	"contactValue":  {"value", "url", "link", "address", "username"},
	"locale":        {"locale", "lang"},
	"source":        {"source", "origin"},
	"nested":        {"primary", "items", "entries", "list", "additional", "elementary"},
}

// sections are the top-level record arrays, each with its own alias list.
var sections = []string{"skills", "experience", "education", "languages", "certifications"}
