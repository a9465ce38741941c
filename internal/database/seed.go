// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// seedCategory mirrors the launch content of the site: the five editorial
// sections the blog started with.
type seedCategory struct {
	slug            string
	name            string
	description     string
	metaTitle       string
	metaDescription string
}

var seedCategories = []seedCategory{
	{
		slug:            "ai-video-generation",
		name:            "AI Video Generation",
		description:     "The latest breakthroughs in AI-powered video creation",
		metaTitle:       "AI Video Generation — YCJGT Blog",
		metaDescription: "Explore the cutting edge of AI video generation, from Seedance 2.0 to the future of automated content creation.",
	},
	{
		slug:            "social-commerce",
		name:            "Social Commerce",
		description:     "AI-powered video content for TikTok Shop, Instagram, and social selling",
		metaTitle:       "Social Commerce AI Videos — YCJGT Blog",
		metaDescription: "How AI video generation is transforming social commerce, TikTok Shop, and shoppable content creation.",
	},
	{
		slug:            "industry-news",
		name:            "Industry News",
		description:     "Breaking news and analysis on AI video models and the creator economy",
		metaTitle:       "AI Video Industry News — YCJGT Blog",
		metaDescription: "Stay up to date with the latest AI video generation models, industry shifts, and creator economy trends.",
	},
	{
		slug:            "tutorials",
		name:            "Tutorials",
		description:     "Step-by-step guides for AI content generation",
		metaTitle:       "AI Video Generation Tutorials — YCJGT Blog",
		metaDescription: "Learn how to generate professional videos with AI. Step-by-step tutorials and best practices.",
	},
	{
		slug:            "use-cases",
		name:            "Use Cases",
		description:     "Real-world applications of AI video generation across industries",
		metaTitle:       "AI Video Use Cases — YCJGT Blog",
		metaDescription: "Discover how businesses use AI video generation for marketing, e-commerce, real estate, fashion, and more.",
	},
}

const seedPostContent = `# Seedance 2.0 Is Here — And Nothing Else Comes Close

The AI video generation space just got a new king.

**Seedance 2.0**, ByteDance's latest and most capable AI video generation model, has arrived — and it doesn't just raise the bar. It obliterates it. If you've been following the rapid evolution of AI-generated video, you know the names: OpenAI's Sora, Google's Veo, Kuaishou's Kling. They've each had their moment. But Seedance 2.0 makes them all look like rough drafts.

## It Surpasses Kling — Which Just Released

Kling made waves when it launched. Impressive motion coherence, decent physics, solid output quality. For a brief window, it was the model to beat.

That window is now closed.

Seedance 2.0 surpasses Kling in virtually every dimension that matters: **motion fidelity, temporal consistency, physics simulation, lighting coherence, and cinematic quality**.

## What This Means for Social Commerce

The **social commerce** revolution — TikTok Shop, Instagram Shopping, live commerce — runs on one fuel: **video content**. The bottleneck has always been production. **Seedance 2.0 eliminates that bottleneck entirely.**

With AI content generation at this level, brands can:

- Generate **TikTok Shop product videos** in minutes, not days
- Create **hundreds of variants** for different audiences, demographics, and aesthetics
- Produce **social commerce content at the speed of trends**, not the speed of production schedules
- Build entire **video-first product catalogs** without a single studio booking

## You Can Just Generate Things

This is exactly why we built **[youcanjustgeneratethings.com](https://youcanjustgeneratethings.com)**. What most people need isn't access to a model — they need a *workflow*:

1. **Drop your assets** — product photos, brand imagery, lifestyle shots
2. **We generate the storyboard** — AI-powered scene planning, transitions, timing
3. **You approve and generate** — one click
4. **Get your output** — download, share, publish

No studio. No editor. No weeks of back-and-forth.

**You can just generate things.**`

// Seed populates the database with initial development data: the launch
// categories and the first published post. It does nothing when categories
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	catIDs := make(map[string]string, len(seedCategories))
	for _, cat := range seedCategories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (slug, name, description, meta_title, meta_description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, cat.slug, cat.name, cat.description, cat.metaTitle, cat.metaDescription).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", cat.slug, err)
		}
		catIDs[cat.slug] = id
	}

	tags, err := json.Marshal([]string{
		"seedance 2.0", "bytedance", "ai video generation", "sora", "veo", "kling",
		"social commerce", "tiktok shop", "ai content generation", "you can just generate things",
	})
	if err != nil {
		return fmt.Errorf("seed marshal tags: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (slug, title, seo_title, meta_description, content, excerpt,
			category_id, tags, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'published', now())
	`,
		"seedance-2-bytedance-ai-video-model-surpasses-sora-veo-kling",
		"Seedance 2.0: ByteDance's New AI Video Model That Leaves Sora, Veo, and Kling in the Dust",
		"Seedance 2.0 by ByteDance — The AI Video Model That Surpasses Sora, Veo & Kling",
		"Seedance 2.0 is ByteDance's most powerful AI video generation model. See how it surpasses Kling, Sora, and Veo with unmatched motion, physics, and realism.",
		seedPostContent,
		"Seedance 2.0 by ByteDance surpasses Kling, Sora, and Veo as the world's most capable AI video generation model. See how it's transforming social commerce, content creation, and what it means for the future of video.",
		catIDs["ai-video-generation"],
		tags,
	)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded",
		"categories", len(seedCategories),
		"posts", 1,
	)

	return nil
}
