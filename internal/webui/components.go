package webui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/yourusername/quiz-builder-api/internal/authoring"
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
)

// Компоненты страниц собираются как templ.ComponentFunc: динамические
// значения всегда проходят через templ.EscapeString.

const pageStyle = `
body { font-family: sans-serif; margin: 0; background: #f6f7f9; color: #1d2733; }
nav { display: flex; align-items: center; gap: 1rem; padding: 1rem 1.5rem; background: #fff; border-bottom: 1px solid #dde2e8; }
nav h1 { font-size: 1.3rem; margin: 0; }
main { max-width: 56rem; margin: 0 auto; padding: 1.5rem; }
.card { background: #fff; border: 1px solid #dde2e8; border-radius: 8px; padding: 1.25rem; margin-bottom: 1.25rem; }
.correct { color: #15803d; font-weight: 600; }
.muted { color: #64748b; }
.error { background: #fee2e2; border: 1px solid #fca5a5; padding: 0.75rem 1rem; border-radius: 6px; margin-bottom: 1rem; }
.btn { display: inline-block; padding: 0.45rem 0.9rem; border: 1px solid #cbd5e1; border-radius: 6px; background: #fff; cursor: pointer; text-decoration: none; color: inherit; }
.btn-danger { color: #b91c1c; }
input[type=text], textarea { width: 100%; padding: 0.45rem; border: 1px solid #cbd5e1; border-radius: 6px; box-sizing: border-box; }
label { display: block; margin: 0.6rem 0 0.2rem; font-size: 0.9rem; }
.option-row { display: flex; align-items: center; gap: 0.5rem; margin-bottom: 0.4rem; }
.option-row input[type=text] { flex: 1; }
`

// layout оборачивает содержимое страницы в общий каркас
func layout(title string, nav, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body><nav>`,
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if err := nav.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</nav><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func raw(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

// ListPage — список всех викторин со ссылками на просмотр и удаление
func ListPage(quizzes []entity.Quiz) templ.Component {
	nav := raw(`<h1>Quizzes</h1><a class="btn" href="/create">Create Quiz</a>`)
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(quizzes) == 0 {
			_, err := io.WriteString(w, `<div class="card muted">No quizzes yet. Create the first one.</div>`)
			return err
		}
		for i := range quizzes {
			quiz := &quizzes[i]
			if _, err := fmt.Fprintf(w,
				`<div class="card"><h2><a href="/quiz/%d">%s</a></h2><p class="muted">%s</p><p>%d question(s)</p>`+
					`<form method="post" action="/quiz/%d/delete"><button class="btn btn-danger" type="submit">Delete</button></form></div>`,
				quiz.ID, templ.EscapeString(quiz.Name), templ.EscapeString(quiz.Description),
				quiz.QuestionCount(), quiz.ID); err != nil {
				return err
			}
		}
		return nil
	})
	return layout("Quizzes", nav, body)
}

// NotFoundPage — заглушка для отсутствующей викторины с возвратом к списку
func NotFoundPage() templ.Component {
	nav := raw(`<a class="btn" href="/">Back</a><h1>Quiz not found</h1>`)
	body := raw(`<div class="card">This quiz does not exist or was deleted. <a href="/">Back to the list</a>.</div>`)
	return layout("Quiz not found", nav, body)
}

// ViewerPage — просмотр сохраненной викторины с пометкой правильных ответов.
// Только чтение, никаких мутаций.
func ViewerPage(quiz *entity.Quiz) templ.Component {
	nav := raw(fmt.Sprintf(`<a class="btn" href="/">Back</a><h1>%s</h1>`, templ.EscapeString(quiz.Name)))
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if quiz.Description != "" {
			if _, err := fmt.Fprintf(w, `<p class="muted">%s</p>`, templ.EscapeString(quiz.Description)); err != nil {
				return err
			}
		}
		for i := range quiz.Questions {
			if err := viewerQuestion(i, &quiz.Questions[i]).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	return layout(quiz.Name, nav, body)
}

// viewerQuestion отображает один вопрос согласно его типу
func viewerQuestion(index int, q *entity.Question) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="card"><h3>%d. %s</h3><p class="muted">%s</p>`,
			index+1, templ.EscapeString(q.Title), templ.EscapeString(string(q.Type))); err != nil {
			return err
		}

		switch q.Type {
		case entity.QuestionTypeShortText:
			placeholder := q.Placeholder
			if placeholder == "" {
				placeholder = "Free text answer"
			}
			if _, err := fmt.Fprintf(w, `<input type="text" disabled placeholder="%s">`,
				templ.EscapeString(placeholder)); err != nil {
				return err
			}
			if q.Answer.Kind() == entity.AnswerText && q.Answer.Text() != "" {
				if _, err := fmt.Fprintf(w, `<p class="correct">Expected: %s</p>`,
					templ.EscapeString(q.Answer.Text())); err != nil {
					return err
				}
			}

		case entity.QuestionTypeBoolean:
			for _, value := range []bool{true, false} {
				class, mark := "", ""
				if q.Answer.Kind() == entity.AnswerBool && q.Answer.Bool() == value {
					class, mark = "correct", " &#10003;"
				}
				if _, err := fmt.Fprintf(w, `<p class="%s">%s%s</p>`, class,
					map[bool]string{true: "True", false: "False"}[value], mark); err != nil {
					return err
				}
			}

		case entity.QuestionTypeMultipleChoice:
			for _, opt := range q.Options {
				class, mark := "", ""
				if q.IsCorrectOption(opt.ID) {
					class, mark = "correct", " &#10003;"
				}
				if _, err := fmt.Fprintf(w, `<p class="%s">%s%s</p>`, class,
					templ.EscapeString(opt.Text), mark); err != nil {
					return err
				}
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// AuthoringPage — форма конструктора над черновиком.
// Каждая кнопка отправляет всю форму: значения полей синхронизируются
// с черновиком до применения действия.
func AuthoringPage(draftID string, draft *authoring.Draft, errorMessage string) templ.Component {
	nav := raw(fmt.Sprintf(
		`<a class="btn" href="/discard/%s">Back</a><h1>Create Quiz</h1>`, templ.EscapeString(draftID)))
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if errorMessage != "" {
			if _, err := fmt.Fprintf(w, `<div class="error">%s</div>`, templ.EscapeString(errorMessage)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<form method="post" action="/create/%s">`, templ.EscapeString(draftID)); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<div class="card"><h2>Quiz Information</h2><label>Quiz Name *</label><input type="text" name="name" value="%s" placeholder="Enter quiz name">`+
				`<label>Description</label><textarea name="description" rows="3" placeholder="Enter quiz description">%s</textarea></div>`,
			templ.EscapeString(draft.Name), templ.EscapeString(draft.Description)); err != nil {
			return err
		}

		for i := range draft.Questions {
			if err := authoringQuestion(i, &draft.Questions[i], len(draft.Questions) > 1).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w,
			`<button class="btn" type="submit" name="action" value="add-question">Add Question</button> `+
				`<button class="btn" type="submit" name="action" value="submit">Create Quiz</button></form>`)
		return err
	})
	return layout("Create Quiz", nav, body)
}

// authoringQuestion отображает редактор одного вопроса черновика
func authoringQuestion(index int, q *entity.Question, removable bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="card"><h3>Question %d</h3>`, index+1); err != nil {
			return err
		}
		if removable {
			if _, err := fmt.Fprintf(w,
				`<button class="btn btn-danger" type="submit" name="action" value="remove-question:%d">Remove question</button>`,
				index); err != nil {
				return err
			}
		}

		// Переключатель типа: смена типа сбрасывает вопрос к умолчаниям нового типа
		if _, err := io.WriteString(w, `<label>Question Type *</label>`); err != nil {
			return err
		}
		types := []struct {
			value entity.QuestionType
			label string
		}{
			{entity.QuestionTypeShortText, "Short Text"},
			{entity.QuestionTypeBoolean, "True/False"},
			{entity.QuestionTypeMultipleChoice, "Multiple Choice"},
		}
		for _, qt := range types {
			current := ""
			if q.Type == qt.value {
				current = " disabled"
			}
			if _, err := fmt.Fprintf(w,
				`<button class="btn" type="submit" name="action" value="set-type:%d:%s"%s>%s</button> `,
				index, qt.value, current, qt.label); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w,
			`<label>Question Title *</label><input type="text" name="q%d_title" value="%s" placeholder="Enter your question">`,
			index, templ.EscapeString(q.Title)); err != nil {
			return err
		}

		switch q.Type {
		case entity.QuestionTypeShortText:
			if _, err := fmt.Fprintf(w,
				`<label>Placeholder Text</label><input type="text" name="q%d_placeholder" value="%s" placeholder="Enter placeholder text for user input">`,
				index, templ.EscapeString(q.Placeholder)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w,
				`<label>Expected Answer</label><input type="text" name="q%d_answer" value="%s" placeholder="Enter the expected answer (optional)">`,
				index, templ.EscapeString(q.Answer.Text())); err != nil {
				return err
			}

		case entity.QuestionTypeBoolean:
			if _, err := io.WriteString(w, `<label>Correct Answer</label>`); err != nil {
				return err
			}
			for _, value := range []bool{true, false} {
				checked := ""
				if q.Answer.Kind() == entity.AnswerBool && q.Answer.Bool() == value {
					checked = " checked"
				}
				if _, err := fmt.Fprintf(w,
					`<label><input type="radio" name="q%d_bool" value="%t"%s> %s</label>`,
					index, value, checked, map[bool]string{true: "True", false: "False"}[value]); err != nil {
					return err
				}
			}

		case entity.QuestionTypeMultipleChoice:
			if _, err := io.WriteString(w, `<label>Answer Options</label>`); err != nil {
				return err
			}
			for _, opt := range q.Options {
				checked := ""
				if q.IsCorrectOption(opt.ID) {
					checked = " checked"
				}
				if _, err := fmt.Fprintf(w,
					`<div class="option-row"><input type="radio" name="q%d_correct" value="%d"%s>`+
						`<input type="text" name="q%d_opt%d" value="%s" placeholder="Option %d">`,
					index, opt.ID, checked, index, opt.ID, templ.EscapeString(opt.Text), opt.ID); err != nil {
					return err
				}
				if len(q.Options) > 2 {
					if _, err := fmt.Fprintf(w,
						`<button class="btn btn-danger" type="submit" name="action" value="remove-option:%d:%d">Remove</button>`,
						index, opt.ID); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</div>`); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w,
				`<button class="btn" type="submit" name="action" value="add-option:%d">Add Option</button>`,
				index); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
