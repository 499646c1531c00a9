package services

import (
	"fmt"
	"strings"
)

// Per-call character budgets for the source text embedded into prompts.
// Gemini truncates silently when the context is too large, so the text is
// bounded up front, slicing on rune boundaries.
func TruncateText(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// BuildCourseTitlePrompt asks for a short course title, plain text only.
func BuildCourseTitlePrompt(text string) string {
	return fmt.Sprintf(`Проанализируй текст и создай короткое название курса (до 50 символов).

ТЕКСТ:
%s

Верни ТОЛЬКО название, без кавычек.

Примеры: "Основы HTML и CSS", "Введение в Python"
`, TruncateText(text, 2000))
}

// BuildFlashcardTitlePrompt asks for a deck title for the flashcard flow.
func BuildFlashcardTitlePrompt(text string) string {
	return fmt.Sprintf(`Проанализируй содержание этого текста и создай краткое информативное название для набора учебных карточек.

Текст для анализа:
%s

Требования к названию:
- Максимум 3-5 слов
- Отражает основную тему текста
- Без кавычек и лишних символов
- На русском языке

Верни ТОЛЬКО название, без пояснений:`, TruncateText(text, 4000))
}

// BuildFlashcardsPrompt asks for a JSON array of exactly 15 cards.
func BuildFlashcardsPrompt(text, title string) string {
	return fmt.Sprintf(`На основе предоставленного текста создай 15 учебных флеш-карт по теме: "%s"

Текст:
%s

Создай карточки которые охватывают основные концепции, термины и идеи из текста.

Формат - ТОЛЬКО JSON массив:
[
  {"front": "Вопрос или термин", "back": "Ответ или определение"}
]

Требования:
- Ровно 15 карточек
- Front: краткий вопрос или термин
- Back: развернутый ответ или определение
- Используй только простой текст, без форматирования
- Избегай общих фраз, ориентируйся на конкретное содержание текста

Верни ТОЛЬКО JSON массив:`, title, TruncateText(text, 10000))
}

// BuildMicrolearningPrompt asks for the full course bundle as one JSON
// object: theory pages, flashcards, a text quiz, and practical tasks whose
// shape depends on whether the source material is about programming.
func BuildMicrolearningPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Создай микрообучение на основе материала.\n\n")
	b.WriteString("ВАЖНЫЕ ИНСТРУКЦИИ:\n")
	b.WriteString("- НЕ используй HTML теги в контенте\n")
	b.WriteString("- Используй простой текст с переносами строк\n")
	b.WriteString("- Для выделения используй *звездочки*, для кода обратные кавычки `\n\n")

	b.WriteString("МАТЕРИАЛ:\n")
	b.WriteString(TruncateText(text, 8000))
	b.WriteString("\n\nСтруктура:\n\n")

	b.WriteString("1. ТЕОРИЯ - создай полную теорию из ВСЕГО материала файла.\n")
	b.WriteString("   Каждая страница должна содержать 4-6 информативных абзацев\n\n")

	b.WriteString("2. ФЛЕШКАРТЫ - 7-10 карточек с ОСНОВНЫМИ терминами и значениями\n\n")

	b.WriteString("3. ТЕКСТОВЫЕ ЗАДАНИЯ - МИНИМУМ 15 вопросов РАЗНЫХ типов\n")
	b.WriteString("   КРИТИЧЕСКИ ВАЖНО для multiple_choice:\n")
	b.WriteString("   - КАЖДЫЙ вопрос типа \"multiple_choice\" ОБЯЗАТЕЛЬНО должен иметь массив \"options\" СТРОГО из 4 вариантов\n")
	b.WriteString("   - \"correct_answer\" - это ИНДЕКС правильного ответа (0, 1, 2 или 3)\n")
	b.WriteString("   - Если не можешь создать 4 варианта - используй тип \"true_false\"\n")
	b.WriteString("   Используй multiple_choice (минимум 12 вопросов) и true_false (минимум 3 вопроса)\n\n")

	b.WriteString("4. ПРАКТИЧЕСКИЕ ЗАДАНИЯ - 5-7 реальных задач. Определи тип курса по материалу!\n")
	b.WriteString("   ЕСЛИ курс про ПРОГРАММИРОВАНИЕ: используй type: \"code\" с полями initialCode, solution, testCases, language.\n")
	b.WriteString("   initialCode должен быть ПОЧТИ ГОТОВЫМ, с пустым местом только для ответа на задачу.\n")
	b.WriteString("   ЕСЛИ курс НЕ про программирование: используй type: \"practical\" только с полями task и instructions.\n\n")

	b.WriteString(`JSON формат:

{
  "theory": [
    {"title": "Название страницы", "content": "Полный текст из материала файла"}
  ],
  "flashcards": [
    {"front": "Основной термин", "back": "Краткое определение простыми словами"}
  ],
  "textQuiz": [
    {"type": "multiple_choice", "question": "Конкретный вопрос по материалу?", "options": ["Первый вариант", "Второй вариант", "Третий вариант", "Четвертый вариант"], "correct_answer": 0, "explanation": "Почему это правильный ответ"},
    {"type": "true_false", "question": "Это утверждение верно?", "correct_answer": true, "explanation": "Объяснение"}
  ],
  "practicalQuiz": [
    {"type": "code", "task": "Описание задачи", "initialCode": "...", "solution": "...", "testCases": ["..."], "language": "html"},
    {"type": "practical", "task": "Описание задания", "instructions": "Подробная инструкция"}
  ]
}

Верни ТОЛЬКО валидный JSON!`)

	return b.String()
}

// BuildPracticalCheckPrompt asks the model to grade a free-form answer.
func BuildPracticalCheckPrompt(task, instructions, userAnswer string) string {
	return fmt.Sprintf(`Ты преподаватель, проверяющий ответ студента на практическое задание.

ЗАДАНИЕ:
%s

ИНСТРУКЦИЯ:
%s

ОТВЕТ СТУДЕНТА:
%s

ВАЖНЫЕ ПРАВИЛА ПРОВЕРКИ:
1. Оцени СОДЕРЖАНИЕ ответа, а не формулировки
2. Если ответ по смыслу правильный, но сформулирован иначе - считай правильным
3. Если не хватает деталей - укажи ЧЕГО именно не хватает
4. НИКОГДА не давай готовый правильный ответ
5. Давай конструктивные советы по улучшению

Верни JSON в формате:
{
  "is_correct": true/false,
  "feedback": "Детальный отзыв с указанием сильных сторон и областей для улучшения"
}

Верни ТОЛЬКО валидный JSON!`, task, instructions, userAnswer)
}

// BuildCodeCheckPrompt asks the model to grade submitted code.
func BuildCodeCheckPrompt(task, language, userCode, expectedOutput string) string {
	if expectedOutput == "" {
		expectedOutput = "Не указан"
	}
	return fmt.Sprintf("Ты — опытный преподаватель программирования. Проверь код студента.\n\n"+
		"ЗАДАНИЕ:\n%s\n\n"+
		"КОД СТУДЕНТА:\n```%s\n%s\n```\n\n"+
		"ОЖИДАЕМЫЙ РЕЗУЛЬТАТ (если указан):\n%s\n\n"+
		"КРИТЕРИИ ПРОВЕРКИ:\n"+
		"1. Синтаксис - проверь на ошибки (незакрытые теги, скобки, кавычки)\n"+
		"2. Логика - выполняет ли код требования задания\n"+
		"3. Работоспособность - будет ли код работать корректно\n"+
		"4. Качество - читаемость, структура\n\n"+
		"Если код ПОЛНОСТЬЮ правильный - верни \"correct\": true, при ЛЮБЫХ ошибках - false.\n\n"+
		"Верни JSON:\n"+
		"{\n"+
		"  \"correct\": true или false,\n"+
		"  \"feedback\": \"Подробная обратная связь\",\n"+
		"  \"errors\": [\"список конкретных ошибок, если есть\"],\n"+
		"  \"suggestions\": [\"советы по улучшению\"],\n"+
		"  \"result_preview\": \"что выведет/покажет код (если правильный)\"\n"+
		"}\n\n"+
		"Отвечай ТОЛЬКО JSON, без дополнительного текста.\n",
		task, language, userCode, expectedOutput)
}

// BuildQuizFromFilePrompt asks for a mixed-type quiz as one JSON object.
func BuildQuizFromFilePrompt(text string) string {
	return fmt.Sprintf(`Проанализируй следующий материал и создай тестовое задание.

МАТЕРИАЛ:
%s

ЗАДАНИЕ:
Создай минимум 15 РАЗНООБРАЗНЫХ тестовых вопросов РАЗНЫХ типов.

ТРЕБОВАНИЯ:
1. Вопросы должны охватывать ВСЕ основные темы из материала
2. ОБЯЗАТЕЛЬНО используй ВСЕ следующие типы вопросов:
   - multiple_choice (минимум 5 вопросов с 4 вариантами ответа)
   - true_false (минимум 3 вопроса с вариантами Правда/Ложь)
   - matching (минимум 2 вопроса на сопоставление терминов)
   - fill_in_blank (минимум 2 вопроса с заполнением пропусков)
3. Вопросы должны быть разного уровня сложности

ФОРМАТ ОТВЕТА (только JSON):
{
    "title": "Название теста (на основе темы материала)",
    "questions": [
        {"type": "multiple_choice", "question": "Текст вопроса?", "options": ["Вариант 1", "Вариант 2", "Вариант 3", "Вариант 4"], "correctAnswer": 0, "explanation": "Объяснение"},
        {"type": "true_false", "question": "Утверждение для проверки?", "options": ["Правда", "Ложь"], "correctAnswer": 0, "explanation": "Объяснение"}
    ]
}

ВАЖНО: Верни ТОЛЬКО валидный JSON, без комментариев и markdown форматирования!`, TruncateText(text, 15000))
}

// BuildChatPrompt wraps a free-form user question with the assistant
// persona and platform context.
func BuildChatPrompt(message string) string {
	return fmt.Sprintf(`Ты - дружелюбный AI-помощник образовательной платформы Ai-Ustaz для учителей и преподавателей.

Платформа Ai-Ustaz предоставляет инструменты: флеш-карты, тестовые задания,
генератор заданий, учебные планы уроков, электронные курсы из PDF, анализ
прогресса, банк ресурсов, календарь занятий и проверку работ.

ВАЖНЫЕ ПРАВИЛА:
- Отвечай кратко и по делу (2-4 предложения)
- Используй дружелюбный, профессиональный тон
- Если вопрос про создание чего-то - подскажи нажать на соответствующую карточку на главной странице
- Используй эмодзи умеренно (1-2 на сообщение)
- Не используй markdown форматирование жирным шрифтом (**)

Вопрос пользователя: %s

Ответь коротко и полезно:`, message)
}

// BuildAssignmentsPrompt asks for exactly count assignments, each opened by
// a numbered marker so the reply can be sliced back apart. lang is "ru" or
// "kk".
func BuildAssignmentsPrompt(text string, count int, lang string) string {
	if lang == "kk" {
		return fmt.Sprintf(`Материал негізінде %[1]d ЖЕКЕ тапсырма жасаңыз.

Материал:
%[2]s

МІНДЕТТІ ФОРМАТ - әрбір тапсырма НОМЕРМЕН басталуы керек:

ТАПСЫРМА 1: [атауы]
[толық сипаттама]

ТАПСЫРМА 2: [атауы]
[толық сипаттама]

...

ТАПСЫРМА %[1]d: [атауы]
[толық сипаттама]

Әрбір тапсырма үшін нақты атау беріңіз, не істеу керектігін жазыңыз және
қандай нәтиже болуы керектігін көрсетіңіз.

МІНДЕТТІ: Дәл %[1]d тапсырма болуы керек! Әрқайсысы "ТАПСЫРМА X:" деп басталуы керек!`,
			count, TruncateText(text, 8000))
	}

	return fmt.Sprintf(`Создайте %[1]d ОТДЕЛЬНЫХ заданий на основе материала.

Материал:
%[2]s

ОБЯЗАТЕЛЬНЫЙ ФОРМАТ - каждое задание должно начинаться с НОМЕРА:

ЗАДАНИЕ 1: [название]
[полное описание]

ЗАДАНИЕ 2: [название]
[полное описание]

...

ЗАДАНИЕ %[1]d: [название]
[полное описание]

Для каждого задания дайте конкретное название, напишите что нужно сделать,
объясните как выполнять и укажите какой результат должен получиться.

ОБЯЗАТЕЛЬНО: Должно быть ровно %[1]d заданий! Каждое начинается с "ЗАДАНИЕ X:"!`,
		count, TruncateText(text, 8000))
}

// BuildCourseInfoPrompt asks for course metadata as JSON.
func BuildCourseInfoPrompt(content string) string {
	return fmt.Sprintf(`Проанализируй материал курса и определи:
1. Название курса/темы
2. Тип курса
3. Уровень курса (начинающий, средний, продвинутый)
4. Основные темы/модули
5. Целевая аудитория

МАТЕРИАЛ:
%s

Верни ТОЛЬКО валидный JSON (без комментариев):
{
    "courseName": "название",
    "courseType": "тип курса",
    "level": "уровень",
    "mainTopics": ["тема 1", "тема 2"],
    "targetAudience": "аудитория"
}`, TruncateText(content, 3000))
}

// BuildTheoryPrompt asks for one markdown theory page. The reply is plain
// markdown, not JSON.
func BuildTheoryPrompt(content string, pageNumber, totalPages int) string {
	return fmt.Sprintf(`Ты — опытный преподаватель, создающий интересный учебный материал для начинающих.

Твоя задача: на основе предоставленного материала создать увлекательную теорию для страницы %d из %d.

МАТЕРИАЛ:
%s

ТРЕБОВАНИЯ К ОФОРМЛЕНИЮ:
1. Каждый основной раздел начинай с заголовка ## [эмодзи] Название раздела, подразделы с ###
2. Оборачивай каждый ключевой термин в **двойные звездочки**, выдели 5-7 важнейших терминов
3. Используй простые аналогии из жизни, пиши так, будто объясняешь другу
4. Используй специальные блоки: "Простыми словами:", "Важно:", "Совет:", "Пример:"
5. Короткие абзацы (2-4 предложения), конкретные примеры после каждой концепции

ВАЖНО:
- НЕ используй HTML теги в самом контенте
- Используй только markdown-разметку (##, ###, **, *), для кода тройные обратные кавычки

Верни текст теории в формате markdown с эмодзи и выделением терминов.
НЕ используй JSON, только текст markdown!`, pageNumber, totalPages, TruncateText(content, 8000))
}
