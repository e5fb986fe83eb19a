package assist

import "fmt"

const parsePromptTemplate = `You are an expert resume parser. Extract the resume below into a JSON object.

Resume text:
%s

Return only a JSON object with any of these keys that have data:
personal {name, email, phone, location, linkedin, website}, summary,
experience [{role, company, location, startDate, endDate, current, description}],
education [{school, degree, field, location, startDate, endDate, current, gpa, description}],
skills [{name, level: beginner|intermediate|advanced|expert}],
certifications [{name, issuer, date, expiryDate, credentialId, url}],
projects [{name, description, role, url, startDate, endDate, current, technologies}],
languages [{name, proficiency: basic|intermediate|fluent|native}],
awards [{title, issuer, date, description}],
volunteer [{organization, role, startDate, endDate, current, description}],
publications [{title, publisher, date, authors, url}],
courses [{name, institution, completionDate, description}].
Use YYYY-MM for dates and set current to true for ongoing entries.`

const rewritePromptTemplate = `You are an expert resume writer. Improve the following %s section so it is concise, impactful and ATS-friendly.
Use strong action verbs, quantify achievements where the text supports it and keep every fact unchanged.

Current content:
%s

Return only the improved text.`

const scorePromptTemplate = `You are an applicant tracking system and career advisor. Compare the resume with the job description.

Resume:
%s

Job description:
%s

Return only a JSON object: {"score": 0-100, "strengths": [], "gaps": [], "suggestions": []}`

const summaryPromptTemplate = `You are an expert resume writer. Write a professional summary of three to four sentences for this resume.

Resume:
%s

Return only the summary text.`

func parsePrompt(text string) string {
	return fmt.Sprintf(parsePromptTemplate, text)
}

func rewritePrompt(section, text string) string {
	return fmt.Sprintf(rewritePromptTemplate, section, text)
}

func scorePrompt(resumeJSON, jobText string) string {
	return fmt.Sprintf(scorePromptTemplate, resumeJSON, jobText)
}

func summaryPrompt(resumeJSON string) string {
	return fmt.Sprintf(summaryPromptTemplate, resumeJSON)
}
