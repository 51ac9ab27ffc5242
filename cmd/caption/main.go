package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"captioncraft/internal/config"
	"captioncraft/internal/domain/caption"
	"captioncraft/internal/infrastructure/llm"
	"captioncraft/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	postType := flag.String("type", string(caption.PostTypePromotional), "post type: promotional, inspirational, educational, conversational, custom")
	purpose := flag.String("purpose", string(caption.PostPurposeAttention), "post purpose: attention, sales, community, storytelling, custom")
	customType := flag.String("custom-type", "", "label used when -type=custom")
	customPurpose := flag.String("custom-purpose", "", "label used when -purpose=custom")
	businessType := flag.String("business-type", "", "business type, e.g. Bakery")
	description := flag.String("description", "", "business description")
	details := flag.String("details", "", "optional extra context for this post")
	verbose := flag.Bool("v", false, "log generation attempts to stderr")
	flag.Parse()

	req := caption.GenerationRequest{
		PostType:            caption.PostType(strings.ToLower(strings.TrimSpace(*postType))),
		PostPurpose:         caption.PostPurpose(strings.ToLower(strings.TrimSpace(*purpose))),
		CustomType:          strings.TrimSpace(*customType),
		CustomPurpose:       strings.TrimSpace(*customPurpose),
		BusinessType:        strings.TrimSpace(*businessType),
		BusinessDescription: strings.TrimSpace(*description),
		AdditionalDetails:   strings.TrimSpace(*details),
	}
	if !req.PostType.Valid() {
		log.Fatalf("unknown -type %q", *postType)
	}
	if !req.PostPurpose.Valid() {
		log.Fatalf("unknown -purpose %q", *purpose)
	}
	if req.BusinessType == "" || req.BusinessDescription == "" {
		log.Fatalf("provide -business-type and -description")
	}

	cfg, err := config.LoadLLM()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl := zap.NewNop()
	if *verbose {
		zl, err = logger.New("caption", "debug", true)
		if err != nil {
			log.Fatalf("failed to init logger: %v", err)
		}
		defer func() { _ = zl.Sync() }()
	}

	ctx := context.Background()
	gen, err := llm.New(ctx, cfg, zl)
	if err != nil {
		log.Fatalf("failed to init generator: %v", err)
	}

	res, err := gen.Generate(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "caption generation failed:", err)
		os.Exit(1)
	}

	fmt.Println(caption.ShareText(res))
}
