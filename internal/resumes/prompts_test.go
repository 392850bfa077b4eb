package resumes

import "testing"

func TestBuildPrompts(t *testing.T) {
	input, err := Validate(validFields())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := BuildPrompts(input)

	wantObjective := "I am writing a resume. My name is Ada Lovelace, I work as a Engineer with 5 years of experience. I work with technologies like Go, SQL. Write a 100-word summary about me in first person."
	if got.Objective != wantObjective {
		t.Fatalf("objective prompt:\n got %q\nwant %q", got.Objective, wantObjective)
	}
	wantKeypoints := "Give 10 strong bullet points for my resume based on this: I am Ada Lovelace, working as a Engineer for 5 years using Go, SQL."
	if got.Keypoints != wantKeypoints {
		t.Fatalf("keypoints prompt:\n got %q\nwant %q", got.Keypoints, wantKeypoints)
	}
	wantJobs := "I worked at 2 companies: Acme as Dev, Globex as Lead. Write ~50 words for each company in first person, describing my success at each."
	if got.JobResponsibilities != wantJobs {
		t.Fatalf("jobs prompt:\n got %q\nwant %q", got.JobResponsibilities, wantJobs)
	}

	if again := BuildPrompts(input); again != got {
		t.Fatalf("prompts are not deterministic")
	}
}

func TestBuildPromptsEmptyHistory(t *testing.T) {
	got := BuildPrompts(ValidatedInput{WorkHistory: nil})
	want := "I worked at 0 companies: . Write ~50 words for each company in first person, describing my success at each."
	if got.JobResponsibilities != want {
		t.Fatalf("got %q, want %q", got.JobResponsibilities, want)
	}
}
