package server

import (
	"fmt"
	"net/http"
)

// handleGlobalJS serves the global ftab script
func (s *Server) handleGlobalJS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Determine server URL from request
	scheme := "http"
	if isSecure(r) {
		scheme = "https"
	}
	serverURL := fmt.Sprintf("%s://%s", scheme, r.Host)

	script := GenerateGlobalScript(serverURL)

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write([]byte(script))
}

// GenerateGlobalScript generates the global ft.js script with the given server URL.
// Assignment happens server-side; the script only swaps text and reports
// conversions for the variant it was given. Every call carries the page's
// hostname so the server resolves the domain the visitor is actually on.
func GenerateGlobalScript(serverURL string) string {
	return fmt.Sprintf(`(function(){
  var S='%s';
  var H=encodeURIComponent(location.hostname);
  var assigned={};

  function url(path,q){
    return S+path+'?host='+H+(q?'&'+q:'');
  }

  function get(path,q){
    return fetch(url(path,q),{credentials:'include'}).then(function(r){return r.json();});
  }

  // Domain content
  get('/api/domain').then(function(cfg){
    document.querySelectorAll('[data-ft-section]').forEach(function(el){
      var c=(cfg.content||{})[el.dataset.ftSection];
      var field=el.dataset.ftField||'headline';
      if(c&&c[field])el.textContent=c[field];
    });
    document.querySelectorAll('[data-ft-brand]').forEach(function(el){
      var b=cfg.branding||{};
      if(b[el.dataset.ftBrand])el.textContent=b[el.dataset.ftBrand];
    });
  }).catch(function(){});

  // Experiments rendered on this page
  var tests=[];
  document.querySelectorAll('[data-ft-test]').forEach(function(el){
    var t=el.dataset.ftTest;
    if(t&&tests.indexOf(t)<0)tests.push(t);
  });
  if(tests.length)get('/api/assign','tests='+tests.map(encodeURIComponent).join(',')).then(function(res){
    assigned=res.assignments||{};
    document.querySelectorAll('[data-ft-test]').forEach(function(el){
      var v=assigned[el.dataset.ftTest];
      if(v===undefined)return;
      var variants=JSON.parse(el.dataset.ftVariants||'{}');
      if(variants[v])el.textContent=variants[v];
      el.dataset.ftAssigned=v;
    });
  }).catch(function(){});

  // Conversions carry the variant the visitor was shown
  document.querySelectorAll('[data-ft-convert]').forEach(function(el){
    el.addEventListener('click',function(){
      var t=el.dataset.ftConvert;
      if(assigned[t]===undefined)return;
      send('/api/convert',{test_id:t,variant_id:assigned[t],conversion_type:el.dataset.ftConversionType||'cta_click'});
    });
  });

  function send(path,body){
    try{navigator.sendBeacon(url(path),JSON.stringify(body));}catch(e){}
  }
})();`, serverURL)
}
