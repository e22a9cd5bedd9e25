package main

import (
	"context"
	"flag"
	"time"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seedLesson bundles one sample lesson with its study items.
type seedLesson struct {
	lesson     domain.Lesson
	flashcards []domain.Flashcard
	questions  []domain.Question
}

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "edumorph-seed",
	})
	logger.SetDefaultLogger(appLogger)

	configPath := flag.String("config", "", "Path to config file")
	force := flag.Bool("force", false, "Seed even if lessons already exist")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	ctx := context.Background()
	lessonRepo := repository.NewLessonRepository(db)
	flashcardRepo := repository.NewFlashcardRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	existing, err := lessonRepo.CountPublished(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to count lessons")
	}
	if existing > 0 && !*force {
		appLogger.WithField("lessons", existing).Info("Database already seeded, nothing to do")
		return
	}

	seeded := 0
	for _, sample := range sampleLessons() {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := lessonRepo.WithTx(tx).Create(ctx, &sample.lesson); err != nil {
				return err
			}

			owner := domain.LessonOwner(sample.lesson.ID)
			cards := make([]*domain.Flashcard, 0, len(sample.flashcards))
			for i := range sample.flashcards {
				card := sample.flashcards[i]
				card.ID = uuid.New().String()
				card.SetOwner(owner)
				card.CreatedAt = time.Now()
				cards = append(cards, &card)
			}
			if err := flashcardRepo.WithTx(tx).CreateBatch(ctx, cards); err != nil {
				return err
			}

			questions := make([]*domain.Question, 0, len(sample.questions))
			for i := range sample.questions {
				q := sample.questions[i]
				q.ID = uuid.New().String()
				q.SetOwner(owner)
				q.CreatedAt = time.Now()
				questions = append(questions, &q)
			}
			return questionRepo.WithTx(tx).CreateBatch(ctx, questions)
		})
		if err != nil {
			appLogger.WithError(err).WithField("title", sample.lesson.Title).Fatal("Failed to seed lesson")
		}
		seeded++
	}

	appLogger.WithField("lessons", seeded).Info("Seeding completed")
}

// sampleLessons returns the starter catalog: one lesson per major subject,
// spread across age groups.
func sampleLessons() []seedLesson {
	now := time.Now()

	return []seedLesson{
		{
			lesson: domain.Lesson{
				ID:                uuid.New().String(),
				Title:             "Introduction to Photosynthesis",
				Description:       "How plants convert light, water, and carbon dioxide into energy.",
				Topic:             "Biology",
				Subject:           "science",
				FormatType:        domain.FormatText,
				AISummary:         "Photosynthesis is the process by which plants use sunlight to synthesize glucose from carbon dioxide and water, releasing oxygen as a byproduct.",
				KeyPoints:         domain.StringArray{"Chlorophyll", "Light reactions", "Calvin cycle", "Glucose"},
				DifficultyLevel:   "beginner",
				EstimatedDuration: 15,
				AgeGroupTarget:    domain.AgeGroupTeens,
				TeacherID:         "seed",
				Tags:              domain.StringArray{"biology", "plants"},
				IsPublished:       true,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			flashcards: []domain.Flashcard{
				{Term: "Photosynthesis", Definition: "The process plants use to convert light energy into chemical energy stored in glucose.", AIGenerated: false},
				{Term: "Chlorophyll", Definition: "The green pigment in chloroplasts that absorbs light for photosynthesis.", AIGenerated: false},
				{Term: "Calvin cycle", Definition: "The light-independent reactions that fix carbon dioxide into glucose.", AIGenerated: false},
			},
			questions: []domain.Question{
				{QuestionText: "What gas do plants release during photosynthesis?", AnswerText: "Oxygen", QuestionType: domain.QuestionEssay, DifficultyLevel: "beginner"},
				{QuestionText: "Photosynthesis takes place in the mitochondria.", AnswerText: "False", QuestionType: domain.QuestionTrueFalse, DifficultyLevel: "beginner"},
			},
		},
		{
			lesson: domain.Lesson{
				ID:                uuid.New().String(),
				Title:             "Fractions and Decimals",
				Description:       "Converting between fractions and decimals, with comparison practice.",
				Topic:             "Arithmetic",
				Subject:           "math",
				FormatType:        domain.FormatText,
				AISummary:         "Fractions and decimals are two notations for the same quantities. Converting between them relies on division and place value.",
				KeyPoints:         domain.StringArray{"Numerator", "Denominator", "Place value", "Equivalent fractions"},
				DifficultyLevel:   "beginner",
				EstimatedDuration: 20,
				AgeGroupTarget:    domain.AgeGroupChildren,
				TeacherID:         "seed",
				Tags:              domain.StringArray{"math", "arithmetic"},
				IsPublished:       true,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			flashcards: []domain.Flashcard{
				{Term: "Numerator", Definition: "The top number of a fraction, counting how many parts are taken.", AIGenerated: false},
				{Term: "Denominator", Definition: "The bottom number of a fraction, counting how many equal parts the whole is divided into.", AIGenerated: false},
			},
			questions: []domain.Question{
				{QuestionText: "What is 1/2 written as a decimal?", AnswerText: "0.5", QuestionType: domain.QuestionEssay, DifficultyLevel: "beginner"},
				{QuestionText: "Which is larger: 3/4 or 0.8?", AnswerText: "0.8", QuestionType: domain.QuestionMultipleChoice, Options: domain.StringArray{"3/4", "0.8", "They are equal"}, CorrectAnswer: "0.8", DifficultyLevel: "beginner"},
			},
		},
		{
			lesson: domain.Lesson{
				ID:                uuid.New().String(),
				Title:             "The French Revolution",
				Description:       "Causes, key events, and consequences of the revolution of 1789.",
				Topic:             "European History",
				Subject:           "history",
				FormatType:        domain.FormatText,
				AISummary:         "The French Revolution overthrew the monarchy, reshaped French society, and spread revolutionary ideals of liberty and equality across Europe.",
				KeyPoints:         domain.StringArray{"Estates-General", "Storming of the Bastille", "Reign of Terror", "Napoleon"},
				DifficultyLevel:   "intermediate",
				EstimatedDuration: 25,
				AgeGroupTarget:    domain.AgeGroupYoungAdults,
				TeacherID:         "seed",
				Tags:              domain.StringArray{"history", "europe"},
				IsPublished:       true,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			flashcards: []domain.Flashcard{
				{Term: "Estates-General", Definition: "The assembly of the three French estates whose 1789 meeting sparked the revolution.", AIGenerated: false},
				{Term: "Reign of Terror", Definition: "The 1793-1794 period of mass executions led by the Committee of Public Safety.", AIGenerated: false},
			},
			questions: []domain.Question{
				{QuestionText: "In what year did the storming of the Bastille take place?", AnswerText: "1789", QuestionType: domain.QuestionEssay, DifficultyLevel: "intermediate"},
				{QuestionText: "The French Revolution ended the Bourbon monarchy permanently.", AnswerText: "False", QuestionType: domain.QuestionTrueFalse, DifficultyLevel: "intermediate"},
			},
		},
	}
}
